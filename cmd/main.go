package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "campforge/internal/adapter/http"
	"campforge/internal/adapter/postgres"
	"campforge/internal/adapter/usecase"
	"campforge/internal/config"
	"campforge/internal/db"
	"campforge/internal/jobs"
)

// main is the entry point of the campforge service. It loads
// configuration, optionally runs database migrations and seeding,
// initializes the connection pool, repositories and usecases, starts the
// cleanup scheduler and the HTTP server, and shuts everything down
// gracefully on a termination signal.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Psql.RunSeed {
		if err = db.Seed(ctx, pool); err != nil {
			logger.Error("seed error", slog.Any("error", err))
		} else {
			logger.Info("demo data seeded")
		}
	}

	campaignRepo := postgres.NewCampaignRepository(pool)
	draftRepo := postgres.NewDraftRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)

	campaignSvc := usecase.NewCampaignUseCase(campaignRepo, draftRepo, orgRepo)
	draftSvc := usecase.NewDraftUseCase(draftRepo, orgRepo)

	if cfg.Cleanup.Enabled {
		scheduler := jobs.NewScheduler(draftSvc, logger)
		if err = scheduler.Start(cfg.Cleanup.Schedule); err != nil {
			logger.Error("scheduler error", slog.Any("error", err))
			os.Exit(1)
		}
		defer scheduler.Stop()
	}

	handler := httpadapter.NewHandler(campaignSvc, draftSvc, logger, httpadapter.Options{
		RatePerSecond: cfg.HTTP.RatePerSecond,
		RateBurst:     cfg.HTTP.RateBurst,
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
