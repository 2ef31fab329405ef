package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agriverse/agriverse/internal/app"
	"github.com/agriverse/agriverse/internal/auth"
	"github.com/agriverse/agriverse/internal/coops"
	"github.com/agriverse/agriverse/internal/farmgpt"
	"github.com/agriverse/agriverse/internal/godowns"
	"github.com/agriverse/agriverse/internal/marketplace"
	"github.com/agriverse/agriverse/internal/platform/cache"
	"github.com/agriverse/agriverse/internal/platform/db"
	"github.com/agriverse/agriverse/internal/resources/tools"
	"github.com/agriverse/agriverse/internal/resources/trucks"
	"github.com/agriverse/agriverse/internal/routing"
	"github.com/agriverse/agriverse/internal/shared"
	"github.com/agriverse/agriverse/internal/storage"
	"github.com/agriverse/agriverse/internal/tts"
	"github.com/agriverse/agriverse/internal/users"
	"github.com/agriverse/agriverse/internal/waste"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// Redis holds sessions; without it every request is anonymous.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	policy := routing.DefaultPolicy()
	routes := routing.Middleware{Policy: policy, Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager, policy)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, routes)

	godownsRepo := godowns.NewRepository(dbpool)
	godownsService := godowns.NewService(godownsRepo)
	godownsHandler := godowns.NewHandler(logger, godownsService, routes)

	storageRepo := storage.NewRepository(dbpool)
	storageService := storage.NewService(storageRepo, godownsService)
	storageHandler := storage.NewHandler(logger, storageService, routes)

	marketRepo := marketplace.NewRepository(dbpool)
	marketService := marketplace.NewService(marketRepo)
	marketHandler := marketplace.NewHandler(logger, marketService, routes)

	coopsRepo := coops.NewRepository(dbpool)
	coopsService := coops.NewService(coopsRepo)
	coopsHandler := coops.NewHandler(logger, coopsService, routes)

	toolsRepo := tools.NewRepository(dbpool)
	toolsService := tools.NewService(toolsRepo)
	toolsHandler := tools.NewHandler(logger, toolsService, routes)

	trucksRepo := trucks.NewRepository(dbpool)
	trucksService := trucks.NewService(trucksRepo)
	trucksHandler := trucks.NewHandler(logger, trucksService, routes)

	wasteRepo := waste.NewRepository(dbpool)
	wasteService := waste.NewService(wasteRepo)
	wasteHandler := waste.NewHandler(logger, wasteService, routes)

	generator, err := farmgpt.NewGeminiGenerator(ctx, cfg.FarmGPTAPIKey, cfg.FarmGPTModel)
	if err != nil {
		logger.Error("init farmgpt", slog.Any("error", err))
		os.Exit(1)
	}
	farmgptHistory := farmgpt.NewHistory(redisClient)
	farmgptService := farmgpt.NewService(generator, farmgptHistory, logger)
	farmgptHandler := farmgpt.NewHandler(logger, farmgptService, routes)

	ttsService := tts.NewService(tts.NewClient(cfg.TTSBaseURL), redisClient, logger)
	ttsHandler := tts.NewHandler(logger, ttsService, routes)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		Routes:             routes,
		AuthHandler:        authHandler,
		UsersHandler:       usersHandler,
		GodownsHandler:     godownsHandler,
		StorageHandler:     storageHandler,
		MarketplaceHandler: marketHandler,
		CoopsHandler:       coopsHandler,
		ToolsHandler:       toolsHandler,
		TrucksHandler:      trucksHandler,
		WasteHandler:       wasteHandler,
		FarmGPTHandler:     farmgptHandler,
		TTSHandler:         ttsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
