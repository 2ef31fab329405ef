package farmgpt

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/routing"
	"github.com/agriverse/agriverse/internal/shared"
)

// Handler wires the advisor endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	routes  routing.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, routes routing.Middleware) *Handler {
	return &Handler{logger: logger, service: service, routes: routes}
}

// MountRoutes registers the advisor route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.routes.RequireAuth)
	r.Post("/", h.ask)
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())

	var req askRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	answer, err := h.service.Ask(r.Context(), ident.ID, req.Question)
	if err != nil {
		h.logger.Error("farmgpt ask", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, answer)
}
