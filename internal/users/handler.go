package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/routing"
	"github.com/agriverse/agriverse/internal/shared"
)

// Handler exposes profile endpoints. The profile belongs to the session
// identity; there is no cross-user access.
type Handler struct {
	logger  *slog.Logger
	service *Service
	routes  routing.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, routes routing.Middleware) *Handler {
	return &Handler{logger: logger, service: service, routes: routes}
}

// MountRoutes registers profile routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.routes.RequireAuth)
	r.Get("/profile", h.show)
	r.Put("/profile", h.update)
}

type updateProfileRequest struct {
	FullName           string `json:"full_name"`
	Phone              string `json:"phone"`
	LanguagePreference string `json:"language_preference"`
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	user, err := h.service.Get(r.Context(), ident.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("load profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())

	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), ident.ID, ProfileUpdate{
		FullName:           req.FullName,
		Phone:              req.Phone,
		LanguagePreference: req.LanguagePreference,
	})
	if err != nil {
		h.logger.Error("update profile", slog.Any("error", err), slog.Int64("user_id", ident.ID))
		httpx.RespondError(w, err)
		return
	}

	// Keep the session identity in sync so routing and /auth/me see the edit.
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		refreshed := *ident
		refreshed.FullName = user.FullName
		refreshed.Phone = user.Phone
		refreshed.LanguagePreference = user.LanguagePreference
		sess.SetIdentity(refreshed)
	}

	httpx.JSON(w, http.StatusOK, user)
}
