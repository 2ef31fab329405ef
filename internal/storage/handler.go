package storage

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/routing"
	"github.com/agriverse/agriverse/internal/shared"
)

// Handler wires the storage request lifecycle: farmers submit and track,
// godown admins decide, buyers browse and purchase.
type Handler struct {
	logger  *slog.Logger
	service *Service
	routes  routing.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, routes routing.Middleware) *Handler {
	return &Handler{logger: logger, service: service, routes: routes}
}

// MountFarmerRoutes registers the farmer-facing endpoints.
func (h *Handler) MountFarmerRoutes(r chi.Router) {
	r.Use(h.routes.RequireRole(shared.RoleFarmer))
	r.Post("/requests", h.submit)
	r.Get("/requests", h.listMine)
}

// MountAdminRoutes registers the godown admin endpoints.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Use(h.routes.RequireRole(shared.RoleGodownAdmin))
	r.Get("/", h.listForAdmin)
	r.Post("/{id}/approve", h.approve)
	r.Post("/{id}/reject", h.reject)
}

// MountBuyerRoutes registers the buyer endpoints.
func (h *Handler) MountBuyerRoutes(r chi.Router) {
	r.Use(h.routes.RequireRole(shared.RoleBuyer))
	r.Get("/market", h.market)
	r.Post("/market/{id}/buy", h.buy)
	r.Get("/purchases", h.purchases)
}

type submitRequest struct {
	GodownID            int64   `json:"godown_id"`
	ProductName         string  `json:"product_name"`
	QuantityKg          float64 `json:"quantity_kg"`
	PricePerKg          float64 `json:"price_per_kg"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	TemperatureRequired bool    `json:"temperature_required"`
	HumidityRequired    bool    `json:"humidity_required"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())

	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	created, err := h.service.Submit(r.Context(), ident.ID, CreateParams{
		GodownID:            req.GodownID,
		ProductName:         req.ProductName,
		QuantityKg:          req.QuantityKg,
		PricePerKg:          req.PricePerKg,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		TemperatureRequired: req.TemperatureRequired,
		HumidityRequired:    req.HumidityRequired,
	})
	if err != nil {
		h.logger.Error("submit storage request", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	requests, err := h.service.ListForFarmer(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list storage requests", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"requests": requests})
}

func (h *Handler) listForAdmin(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	requests, err := h.service.ListForAdmin(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list incoming requests", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"requests": requests})
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Approve)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, adminID int64) (Request, error)) {
	ident := shared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request ID")
		return
	}
	req, err := fn(r.Context(), id, ident.ID)
	if err != nil {
		h.logger.Error("decide storage request", slog.Any("error", err), slog.Int64("id", id))
		respondLifecycleError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

func (h *Handler) market(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListForSale(r.Context())
	if err != nil {
		h.logger.Error("list produce for sale", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"requests": requests})
}

func (h *Handler) buy(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request ID")
		return
	}
	req, err := h.service.Buy(r.Context(), id, ident.ID)
	if err != nil {
		h.logger.Error("buy produce", slog.Any("error", err), slog.Int64("id", id))
		respondLifecycleError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

func (h *Handler) purchases(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	requests, err := h.service.ListPurchases(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list purchases", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"requests": requests})
}

func respondLifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidStatus):
		httpx.Problem(w, http.StatusConflict, "Conflict", "request is not in a state that allows this action")
	case errors.Is(err, shared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	default:
		httpx.RespondError(w, err)
	}
}
