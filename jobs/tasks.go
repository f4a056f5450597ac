package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan reports products at or under the low-stock threshold.
	TaskLowStockScan = "catalog:low_stock_scan"
	// TaskAnalyticsWarmup precomputes the dashboard and product rankings.
	TaskAnalyticsWarmup = "analytics:warmup"
)

// LowStockScanPayload carries scheduling metadata.
type LowStockScanPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// AnalyticsWarmupPayload names the cache version the warmup was queued for.
type AnalyticsWarmupPayload struct {
	CacheVersion int64 `json:"cache_version"`
}

// NewLowStockScanTask constructs an Asynq task for the low-stock scan.
func NewLowStockScanTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(LowStockScanPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body, asynq.Queue(QueueDefault)), nil
}

// NewAnalyticsWarmupTask constructs an Asynq task for the analytics warmup.
func NewAnalyticsWarmupTask(version int64) (*asynq.Task, error) {
	body, err := json.Marshal(AnalyticsWarmupPayload{CacheVersion: version})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsWarmup, body, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}
