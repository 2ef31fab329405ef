package trucks

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

// Handler wires truck rental endpoints for farmers.
type Handler struct {
	logger  *slog.Logger
	service *Service
	routes  routing.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, routes routing.Middleware) *Handler {
	return &Handler{logger: logger, service: service, routes: routes}
}

// MountRoutes registers truck routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.routes.RequireRole(shared.RoleFarmer))
	r.Get("/", h.list)
	r.Post("/", h.add)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	r.Post("/{id}/book", h.book)
	r.Get("/bookings", h.myBookings)
	r.Post("/bookings/{id}/cancel", h.cancel)
}

type truckRequest struct {
	DriverName          string  `json:"driver_name"`
	RouteFrom           string  `json:"route_from"`
	RouteTo             string  `json:"route_to"`
	AvailableCapacityKg float64 `json:"available_capacity_kg"`
	CostPerKm           float64 `json:"cost_per_km"`
	Availability        string  `json:"availability"`
}

func (req truckRequest) params() TruckParams {
	return TruckParams{
		DriverName:          req.DriverName,
		RouteFrom:           req.RouteFrom,
		RouteTo:             req.RouteTo,
		AvailableCapacityKg: req.AvailableCapacityKg,
		CostPerKm:           req.CostPerKm,
		Availability:        req.Availability,
	}
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())

	var req truckRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	truck, err := h.service.Add(r.Context(), ident.ID, req.params())
	if err != nil {
		h.logger.Error("add truck", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, truck)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	trucksList, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list trucks", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"trucks": trucksList})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req truckRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	truck, err := h.service.Update(r.Context(), id, ident.ID, req.params())
	if err != nil {
		h.logger.Error("update truck", slog.Any("error", err), slog.Int64("id", id))
		respondTruckError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, truck)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Remove(r.Context(), id, ident.ID); err != nil {
		h.logger.Error("remove truck", slog.Any("error", err), slog.Int64("id", id))
		respondTruckError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bookRequest struct {
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	EstimatedKm float64 `json:"estimated_km"`
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req bookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	booking, err := h.service.Book(r.Context(), id, ident.ID, BookParams{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		EstimatedKm: req.EstimatedKm,
	})
	if err != nil {
		h.logger.Error("book truck", slog.Any("error", err), slog.Int64("id", id))
		respondTruckError(w, err)
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
		h.logger.Error("cancel truck booking", slog.Any("error", err), slog.Int64("id", id))
		respondTruckError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) myBookings(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	bookings, err := h.service.MyBookings(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list truck bookings", slog.Any("error", err))
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

func respondTruckError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnavailable):
		httpx.Problem(w, http.StatusConflict, "Conflict", "truck is not available")
	case errors.Is(err, shared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	default:
		httpx.RespondError(w, err)
	}
}
