package coops

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/routing"
	"github.com/agriverse/agriverse/internal/shared"
)

// Handler wires cooperative endpoints for farmers.
type Handler struct {
	logger  *slog.Logger
	service *Service
	routes  routing.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, routes routing.Middleware) *Handler {
	return &Handler{logger: logger, service: service, routes: routes}
}

// MountRoutes registers cooperative routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.routes.RequireRole(shared.RoleFarmer))
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/memberships", h.memberships)
	r.Post("/{id}/join", h.join)
	r.Post("/{id}/leave", h.leave)
}

type createRequest struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Purpose string `json:"purpose"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())

	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	coop, err := h.service.Create(r.Context(), ident.ID, CreateParams{
		Name:    req.Name,
		Region:  req.Region,
		Purpose: req.Purpose,
	})
	if err != nil {
		h.logger.Error("create cooperative", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, coop)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	coops, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list cooperatives", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cooperatives": coops})
}

func (h *Handler) memberships(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	memberships, err := h.service.Memberships(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list memberships", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"memberships": memberships})
}

func (h *Handler) join(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := h.coopID(w, r)
	if !ok {
		return
	}
	membership, err := h.service.Join(r.Context(), id, ident.ID)
	if err != nil {
		h.logger.Error("join cooperative", slog.Any("error", err), slog.Int64("coop_id", id))
		httpx.RespondError(w, mapNotFound(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, membership)
}

func (h *Handler) leave(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := h.coopID(w, r)
	if !ok {
		return
	}
	if err := h.service.Leave(r.Context(), id, ident.ID); err != nil {
		h.logger.Error("leave cooperative", slog.Any("error", err), slog.Int64("coop_id", id))
		httpx.RespondError(w, mapNotFound(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) coopID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid cooperative ID")
		return 0, false
	}
	return id, true
}

func mapNotFound(err error) error {
	if err == shared.ErrNotFound {
		return httpx.ErrNotFound
	}
	return err
}
