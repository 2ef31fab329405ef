package waste

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

// Handler wires waste marketplace endpoints for farmers.
type Handler struct {
	logger  *slog.Logger
	service *Service
	routes  routing.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, routes routing.Middleware) *Handler {
	return &Handler{logger: logger, service: service, routes: routes}
}

// MountRoutes registers waste routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.routes.RequireRole(shared.RoleFarmer))
	r.Get("/", h.listMine)
	r.Post("/", h.record)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	r.Post("/{id}/sell", h.sendToMarket)
	r.Get("/market", h.market)
	r.Post("/{id}/buy", h.buy)
	r.Get("/purchases", h.purchases)
	r.Get("/advice", h.advice)
}

type recordRequest struct {
	WasteType    string   `json:"waste_type"`
	QuantityKg   float64  `json:"quantity_kg"`
	Price        float64  `json:"price"`
	SuggestedUse string   `json:"suggested_use"`
	ReusedAs     string   `json:"reused_as"`
	Latitude     *float64 `json:"location_latitude"`
	Longitude    *float64 `json:"location_longitude"`
	ForSale      bool     `json:"for_sale"`
}

func (req recordRequest) params() RecordParams {
	return RecordParams{
		WasteType:    req.WasteType,
		QuantityKg:   req.QuantityKg,
		Price:        req.Price,
		SuggestedUse: req.SuggestedUse,
		ReusedAs:     req.ReusedAs,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ForSale:      req.ForSale,
	}
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())

	var req recordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	lot, err := h.service.Record(r.Context(), ident.ID, req.params())
	if err != nil {
		h.logger.Error("record waste", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, lot)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req recordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	lot, err := h.service.Update(r.Context(), id, ident.ID, req.params())
	if err != nil {
		h.logger.Error("update waste", slog.Any("error", err), slog.Int64("id", id))
		respondWasteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, lot)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	wastes, err := h.service.ListMine(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list waste", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"wastes": wastes})
}

func (h *Handler) market(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	wastes, err := h.service.Market(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list waste market", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"wastes": wastes})
}

func (h *Handler) sendToMarket(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	lot, err := h.service.SendToMarket(r.Context(), id, ident.ID)
	if err != nil {
		h.logger.Error("send waste to market", slog.Any("error", err), slog.Int64("id", id))
		respondWasteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, lot)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Remove(r.Context(), id, ident.ID); err != nil {
		h.logger.Error("remove waste", slog.Any("error", err), slog.Int64("id", id))
		respondWasteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) buy(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sale, err := h.service.Buy(r.Context(), id, ident.ID)
	if err != nil {
		h.logger.Error("buy waste", slog.Any("error", err), slog.Int64("id", id))
		respondWasteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) purchases(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	sales, err := h.service.MyPurchases(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list waste purchases", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"sales": sales})
}

func (h *Handler) advice(w http.ResponseWriter, r *http.Request) {
	wasteType := r.URL.Query().Get("type")
	if wasteType == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "type is required")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"recommendations": h.service.Advice(wasteType)})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid waste ID")
		return 0, false
	}
	return id, true
}

func respondWasteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAlreadySold):
		httpx.Problem(w, http.StatusConflict, "Conflict", "waste is already sold")
	case errors.Is(err, shared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	default:
		httpx.RespondError(w, err)
	}
}
