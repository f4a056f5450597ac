package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/paintstock/paintstock/internal/app"
	jobmetrics "github.com/paintstock/paintstock/internal/jobs"
	"github.com/paintstock/paintstock/jobs"
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
	// the worker always talks to the queue
	cfg.JobsEnabled = true

	logger := app.NewLogger(cfg)

	svc, err := app.OpenServices(ctx, cfg, logger)
	if err != nil {
		logger.Error("open services", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("close services", slog.Any("error", err))
		}
	}()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	metrics := jobmetrics.NewMetrics(svc.Metrics.Registerer())
	scanJob := jobs.NewLowStockScanJob(svc.Catalog, logger, metrics)
	warmupJob := jobs.NewAnalyticsWarmupJob(svc.Analytics, logger, metrics)

	scanTask, err := jobs.NewLowStockScanTask(time.Time{})
	if err != nil {
		logger.Error("build low stock task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpts,
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLowStockScan, Handler: scanJob.Handle},
			{Type: jobs.TaskAnalyticsWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.LowStockScanSpec, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	client := jobs.NewClient(redisOpts)
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()
	if svc.Cache != nil {
		err := svc.Cache.ListenForInvalidation(ctx, func(ctx context.Context, version int64) {
			if err := client.EnqueueAnalyticsWarmup(ctx, version); err != nil {
				logger.Warn("enqueue analytics warmup", slog.Int64("cache_version", version), slog.Any("error", err))
			}
		})
		if err != nil {
			logger.Warn("analytics invalidation listener", slog.Any("error", err))
		}
	}

	logger.Info("worker started", slog.String("low_stock_scan", cfg.LowStockScanSpec))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
