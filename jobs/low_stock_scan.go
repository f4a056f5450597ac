package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/paintstock/paintstock/internal/catalog"
	jobmetrics "github.com/paintstock/paintstock/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// maxLoggedCodes bounds the product codes attached to the scan log line.
const maxLoggedCodes = 20

// LowStockScanJob publishes the low-stock report as metrics and a log line.
type LowStockScanJob struct {
	Catalog *catalog.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewLowStockScanJob wires dependencies for the scan handler.
func NewLowStockScanJob(products *catalog.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	return &LowStockScanJob{Catalog: products, Logger: logger, Metrics: metrics}
}

// Handle processes low-stock scan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Catalog == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskLowStockScan)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	report, err := j.Catalog.LowStock(ctx)
	if err != nil {
		j.logger().Error("load low stock report", slog.Any("error", err))
		return err
	}
	j.metrics().SetLowStock(report.Threshold, len(report.Items), report.OutOfStock)

	if len(report.Items) == 0 {
		j.logger().Info("no low stock products", slog.Int("threshold", report.Threshold))
		return nil
	}
	codes := make([]string, 0, min(len(report.Items), maxLoggedCodes))
	for _, item := range report.Items {
		if len(codes) == maxLoggedCodes {
			break
		}
		codes = append(codes, item.Code)
	}
	j.logger().Warn("low stock products",
		slog.Int("threshold", report.Threshold),
		slog.Int("count", len(report.Items)),
		slog.Int("out_of_stock", report.OutOfStock),
		slog.Any("codes", codes),
	)
	return nil
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLowStockScan))
	}
	return slog.Default().With(slog.String("job", TaskLowStockScan))
}

func (j *LowStockScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
