package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/agriverse/agriverse/internal/app"
	"github.com/agriverse/agriverse/internal/auth"
	"github.com/agriverse/agriverse/internal/platform/db"
	"github.com/agriverse/agriverse/internal/resources/tools"
	"github.com/agriverse/agriverse/internal/resources/trucks"
	"github.com/agriverse/agriverse/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	toolsRepo := tools.NewRepository(pool)
	trucksRepo := trucks.NewRepository(pool)
	authRepo := auth.NewRepository(pool)

	expiryTask, err := jobs.NewBookingExpiryTask(time.Now())
	if err != nil {
		logger.Error("build booking expiry task", slog.Any("error", err))
		os.Exit(1)
	}
	cleanupTask, err := jobs.NewSessionCleanupTask(time.Now())
	if err != nil {
		logger.Error("build session cleanup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskBookingExpiry, Handler: jobs.NewBookingExpiryHandler(logger, toolsRepo, trucksRepo)},
			{Type: jobs.TaskSessionCleanup, Handler: jobs.NewSessionCleanupHandler(logger, authRepo)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every 1h", Task: expiryTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "45 3 * * *", Task: cleanupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
