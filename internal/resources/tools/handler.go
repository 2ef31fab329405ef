package tools

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/routing"
	"github.com/agriverse/agriverse/internal/shared"
)

// Handler wires tool rental endpoints for farmers.
type Handler struct {
	logger  *slog.Logger
	service *Service
	routes  routing.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, routes routing.Middleware) *Handler {
	return &Handler{logger: logger, service: service, routes: routes}
}

// MountRoutes registers tool routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.routes.RequireRole(shared.RoleFarmer))
	r.Get("/", h.list)
	r.Post("/", h.add)
	r.Delete("/{id}", h.remove)
	r.Post("/{id}/book", h.book)
	r.Get("/bookings", h.myBookings)
	r.Post("/bookings/{id}/cancel", h.cancel)
}

type addRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	RentPricePerDay float64  `json:"rent_price_per_day"`
	Latitude        *float64 `json:"location_latitude"`
	Longitude       *float64 `json:"location_longitude"`
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())

	var req addRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	tool, err := h.service.Add(r.Context(), ident.ID, AddParams{
		Name:            req.Name,
		Description:     req.Description,
		RentPricePerDay: req.RentPricePerDay,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	})
	if err != nil {
		h.logger.Error("add tool", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tool)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	toolsList, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list tools", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tools": toolsList})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Remove(r.Context(), id, ident.ID); err != nil {
		h.logger.Error("remove tool", slog.Any("error", err), slog.Int64("id", id))
		respondToolError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	booking, err := h.service.Book(r.Context(), id, ident.ID)
	if err != nil {
		h.logger.Error("book tool", slog.Any("error", err), slog.Int64("id", id))
		respondToolError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, booking)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Cancel(r.Context(), id, ident.ID); err != nil {
		h.logger.Error("cancel tool booking", slog.Any("error", err), slog.Int64("id", id))
		respondToolError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) myBookings(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	bookings, err := h.service.MyBookings(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list tool bookings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid ID")
		return 0, false
	}
	return id, true
}

func respondToolError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnavailable):
		httpx.Problem(w, http.StatusConflict, "Conflict", "tool is not available")
	case errors.Is(err, shared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	default:
		httpx.RespondError(w, err)
	}
}
