package godowns

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/routing"
	"github.com/agriverse/agriverse/internal/shared"
)

// Handler wires godown endpoints. Reads are open to any authenticated user
// (farmers pick a godown when requesting storage); writes are admin-only and
// ownership-checked in the service.
type Handler struct {
	logger  *slog.Logger
	service *Service
	routes  routing.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, routes routing.Middleware) *Handler {
	return &Handler{logger: logger, service: service, routes: routes}
}

// MountRoutes registers godown routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Group(func(r chi.Router) {
		r.Use(h.routes.RequireRole(shared.RoleGodownAdmin))
		r.Get("/mine", h.listMine)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type godownRequest struct {
	Name               string   `json:"name"`
	City               string   `json:"city"`
	Address            string   `json:"address"`
	Phone              string   `json:"phone"`
	TotalCapacityKg    float64  `json:"total_capacity_kg"`
	StorageFeePerDay   float64  `json:"storage_fee_per_day"`
	TemperatureControl bool     `json:"temperature_control"`
	HumidityControl    bool     `json:"humidity_control"`
	Latitude           *float64 `json:"location_latitude"`
	Longitude          *float64 `json:"location_longitude"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	filters := ListFilters{
		City:    q.Get("city"),
		Search:  q.Get("search"),
		Page:    page,
		PerPage: perPage,
	}
	godowns, pagination, err := h.service.ListPage(r.Context(), filters)
	if err != nil {
		h.logger.Error("list godowns", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"godowns": godowns, "pagination": pagination})
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	godowns, err := h.service.List(r.Context(), ListFilters{AdminID: &ident.ID})
	if err != nil {
		h.logger.Error("list own godowns", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"godowns": godowns})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid godown ID")
		return
	}
	godown, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, mapNotFound(err))
		return
	}
	httpx.JSON(w, http.StatusOK, godown)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())

	var req godownRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), fromRequest(req, ident.ID))
	if err != nil {
		h.logger.Error("create godown", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid godown ID")
		return
	}

	var req godownRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	if err := h.service.Update(r.Context(), id, ident.ID, fromRequest(req, ident.ID)); err != nil {
		h.logger.Error("update godown", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, mapNotFound(err))
		return
	}
	godown, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, mapNotFound(err))
		return
	}
	httpx.JSON(w, http.StatusOK, godown)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ident := shared.IdentityFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid godown ID")
		return
	}
	if err := h.service.Delete(r.Context(), id, ident.ID); err != nil {
		h.logger.Error("delete godown", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, mapNotFound(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func fromRequest(req godownRequest, adminID int64) Godown {
	return Godown{
		AdminID:            adminID,
		Name:               req.Name,
		City:               req.City,
		Address:            req.Address,
		Phone:              req.Phone,
		TotalCapacityKg:    req.TotalCapacityKg,
		StorageFeePerDay:   req.StorageFeePerDay,
		TemperatureControl: req.TemperatureControl,
		HumidityControl:    req.HumidityControl,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
	}
}

func mapNotFound(err error) error {
	if err == shared.ErrNotFound {
		return httpx.ErrNotFound
	}
	return err
}
