package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agriverse/agriverse/internal/auth"
	"github.com/agriverse/agriverse/internal/coops"
	"github.com/agriverse/agriverse/internal/farmgpt"
	"github.com/agriverse/agriverse/internal/godowns"
	"github.com/agriverse/agriverse/internal/marketplace"
	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/resources/tools"
	"github.com/agriverse/agriverse/internal/resources/trucks"
	"github.com/agriverse/agriverse/internal/routing"
	"github.com/agriverse/agriverse/internal/shared"
	"github.com/agriverse/agriverse/internal/storage"
	"github.com/agriverse/agriverse/internal/tts"
	"github.com/agriverse/agriverse/internal/users"
	"github.com/agriverse/agriverse/internal/waste"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Routes         routing.Middleware

	AuthHandler        *auth.Handler
	UsersHandler       *users.Handler
	GodownsHandler     *godowns.Handler
	StorageHandler     *storage.Handler
	MarketplaceHandler *marketplace.Handler
	CoopsHandler       *coops.Handler
	ToolsHandler       *tools.Handler
	TrucksHandler      *trucks.Handler
	WasteHandler       *waste.Handler
	FarmGPTHandler     *farmgpt.Handler
	TTSHandler         *tts.Handler
}

// NewRouter constructs the chi.Router with AgriVerse defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
	}) {
		r.Use(mw)
	}
	r.Use(params.Routes.Gate)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)
		api.Route("/users", params.UsersHandler.MountRoutes)
		api.Route("/godowns", params.GodownsHandler.MountRoutes)

		api.Route("/storage", params.StorageHandler.MountFarmerRoutes)
		api.Route("/requests", params.StorageHandler.MountAdminRoutes)
		api.Route("/buyer", params.StorageHandler.MountBuyerRoutes)

		api.Route("/market", params.MarketplaceHandler.MountAdminRoutes)
		api.Route("/warechain", params.MarketplaceHandler.MountRoutes)

		api.Route("/coops", params.CoopsHandler.MountRoutes)
		api.Route("/tools", params.ToolsHandler.MountRoutes)
		api.Route("/trucks", params.TrucksHandler.MountRoutes)
		api.Route("/waste", params.WasteHandler.MountRoutes)

		api.Route("/farmgpt", params.FarmGPTHandler.MountRoutes)
		api.Route("/tts", params.TTSHandler.MountRoutes)
	})

	return r
}
