package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/inventorypro/inventorypro-web/internal/admin"
	"github.com/inventorypro/inventorypro-web/internal/api"
	"github.com/inventorypro/inventorypro-web/internal/app"
	"github.com/inventorypro/inventorypro-web/internal/auth"
	"github.com/inventorypro/inventorypro-web/internal/barcode"
	"github.com/inventorypro/inventorypro-web/internal/manager"
	"github.com/inventorypro/inventorypro-web/internal/observability"
	"github.com/inventorypro/inventorypro-web/internal/platform/cache"
	"github.com/inventorypro/inventorypro-web/internal/reports"
	"github.com/inventorypro/inventorypro-web/internal/shared"
	"github.com/inventorypro/inventorypro-web/internal/staff"
	"github.com/inventorypro/inventorypro-web/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "inventorypro_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	apiClient := api.NewClient(cfg.APIBaseURL, cfg.APITimeout)

	reportBuilder, err := reports.NewBuilder()
	if err != nil {
		logger.Error("parse report templates", slog.Any("error", err))
		os.Exit(1)
	}
	reportRenderer := reports.NewGotenbergClient(cfg.GotenbergURL)
	if err := reportRenderer.Ping(ctx); err != nil {
		logger.Warn("gotenberg ping", slog.Any("error", err))
	}

	queueClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	authHandler := auth.NewHandler(logger, apiClient, templates, sessionManager, csrfManager)
	adminHandler := admin.NewHandler(logger, apiClient, templates, sessionManager, csrfManager, reportBuilder, reportRenderer, queueClient)
	managerHandler := manager.NewHandler(logger, apiClient, templates, sessionManager, csrfManager, reportBuilder, reportRenderer)
	staffHandler := staff.NewHandler(logger, apiClient, templates, sessionManager, csrfManager, barcode.Code128Renderer{})

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		AuthHandler:    authHandler,
		AdminHandler:   adminHandler,
		ManagerHandler: managerHandler,
		StaffHandler:   staffHandler,
		Metrics:        metrics,
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
