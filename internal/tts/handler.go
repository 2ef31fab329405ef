package tts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/routing"
)

// Handler wires the speech endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	routes  routing.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, routes routing.Middleware) *Handler {
	return &Handler{logger: logger, service: service, routes: routes}
}

// MountRoutes registers the speech route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.routes.RequireAuth)
	r.Get("/", h.speak)
}

func (h *Handler) speak(w http.ResponseWriter, r *http.Request) {
	audio, err := h.service.Speak(r.Context(), r.URL.Query().Get("q"), r.URL.Query().Get("lang"))
	if err != nil {
		h.logger.Error("tts speak", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}
