package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/inventorypro/inventorypro-web/internal/api"
	"github.com/inventorypro/inventorypro-web/internal/app"
	"github.com/inventorypro/inventorypro-web/internal/reports"
	"github.com/inventorypro/inventorypro-web/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	reportJob := jobs.NewReportJob(apiClient, reportBuilder, reportRenderer, cfg.ReportDir, logger)
	jobMetrics := jobs.NewJobMetrics(nil)

	var cron []jobs.CronRegistration
	if cfg.ReportOrgID != 0 {
		nightlyTask, err := jobs.NewOrgSalesReportTask(jobs.OrgSalesReportPayload{
			OrgID:   cfg.ReportOrgID,
			OrgName: cfg.ReportOrgName,
		})
		if err != nil {
			logger.Error("build nightly report task", slog.Any("error", err))
			os.Exit(1)
		}
		cron = append(cron, jobs.CronRegistration{
			Spec:    cfg.ReportCron,
			Task:    nightlyTask,
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeOrgSalesReport, Handler: jobMetrics.Wrap("org_sales_report", reportJob.HandleOrgSalesReport)},
		},
		Cron: cron,
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
