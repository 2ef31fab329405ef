package marketplace

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/routing"
	"github.com/agriverse/agriverse/internal/shared"
)

// Handler wires marketplace endpoints: the godown marketplace views and the
// farmer-to-farmer peer market.
type Handler struct {
	logger  *slog.Logger
	service *Service
	routes  routing.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, routes routing.Middleware) *Handler {
	return &Handler{logger: logger, service: service, routes: routes}
}

// MountAdminRoutes registers the admin view of godown marketplace listings.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Use(h.routes.RequireRole(shared.RoleGodownAdmin))
	r.Get("/", h.adminItems)
}

// MountRoutes registers the shared marketplace and peer market endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.routes.RequireAuth)
	r.Get("/items", h.availableItems)
	r.Route("/store", func(r chi.Router) {
		r.Get("/", h.myStorageItems)
		r.Post("/", h.addStorageItem)
		r.Delete("/{id}", h.removeStorageItem)
	})
	r.Get("/peers", h.peerMarket)
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.myOrders)
		r.Post("/", h.placeOrder)
	})
}

func (h *Handler) adminItems(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	items, err := h.service.ListForAdmin(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list marketplace items", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) availableItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAvailable(r.Context())
	if err != nil {
		h.logger.Error("list available items", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

type storeItemRequest struct {
	ProductName string  `json:"product_name"`
	QuantityKg  float64 `json:"quantity_kg"`
	PricePerKg  float64 `json:"price_per_kg"`
	City        string  `json:"city"`
}

func (h *Handler) addStorageItem(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())

	var req storeItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	item, err := h.service.AddStorageItem(r.Context(), ident.ID, StoreItemParams{
		ProductName: req.ProductName,
		QuantityKg:  req.QuantityKg,
		PricePerKg:  req.PricePerKg,
		City:        req.City,
	})
	if err != nil {
		h.logger.Error("add storage item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) myStorageItems(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	items, err := h.service.MyStorageItems(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list own storage items", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) peerMarket(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	items, err := h.service.PeerMarket(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list peer market", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) removeStorageItem(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid item ID")
		return
	}
	if err := h.service.RemoveStorageItem(r.Context(), id, ident.ID); err != nil {
		if err == shared.ErrNotFound {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("remove storage item", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type orderRequest struct {
	ItemID int64 `json:"item_id"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())

	var req orderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.ItemID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), req.ItemID, ident.ID)
	if err != nil {
		if err == shared.ErrNotFound {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("place order", slog.Any("error", err), slog.Int64("item_id", req.ItemID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	orders, err := h.service.MyOrders(r.Context(), ident.ID)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"orders": orders})
}
