package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/paintstock/paintstock/internal/analytics"
	"github.com/paintstock/paintstock/internal/auth"
	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/observability"
	"github.com/paintstock/paintstock/internal/sales"
	"github.com/paintstock/paintstock/internal/settings"
	"github.com/paintstock/paintstock/internal/storage"
)

// Services is the wired domain layer shared by the HTTP server, the CLI and
// the worker.
type Services struct {
	Store     storage.Store
	Redis     *redis.Client
	Cache     *analytics.Cache
	Metrics   *observability.Metrics
	Catalog   *catalog.Service
	Sales     *sales.Service
	Analytics *analytics.Service
	Auth      *auth.Service
	Settings  *settings.Service
}

// OpenServices connects storage and Redis as configured and wires every
// service on top.
func OpenServices(ctx context.Context, cfg *Config, logger *slog.Logger) (*Services, error) {
	var client *redis.Client
	if cfg.NeedsRedis() {
		c, err := storage.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		client = c
	}

	var (
		store storage.Store
		err   error
	)
	if storage.Driver(cfg.StoreDriver) == storage.DriverRedis {
		store = storage.NewRedisStore(client, cfg.RedisKeyPrefix)
	} else {
		store, err = storage.Open(ctx, cfg.StorageConfig())
		if err != nil {
			if client != nil {
				_ = client.Close()
			}
			return nil, err
		}
	}

	var cache *analytics.Cache
	if cfg.AnalyticsCacheEnabled {
		cache = analytics.NewCache(client, cfg.AnalyticsCacheTTL, cfg.RedisKeyPrefix, logger)
	}
	svc := NewServices(store, cache, cfg, logger)
	svc.Redis = client
	return svc, nil
}

// NewServices wires the services over an open store. cache may be nil.
func NewServices(store storage.Store, cache *analytics.Cache, cfg *Config, logger *slog.Logger) *Services {
	metrics := observability.NewMetrics()
	products := catalog.NewService(store, catalog.ServiceConfig{Notifier: cache, Recorder: metrics})
	return &Services{
		Store:   store,
		Cache:   cache,
		Metrics: metrics,
		Catalog: products,
		Sales: sales.NewService(store, sales.ServiceConfig{
			DateLayout: cfg.ExportDateLayout,
			Notifier:   cache,
			Recorder:   metrics,
		}),
		Analytics: analytics.NewService(store, cache, logger),
		Auth: auth.NewService(store, auth.ServiceConfig{
			Secret:   []byte(cfg.AuthTokenSecret),
			TokenTTL: cfg.AuthTokenTTL,
		}),
		Settings: settings.NewService(store, products, cache),
	}
}

// Close releases the store and the Redis client. When the store is backed by
// the same client, closing it twice is harmless.
func (s *Services) Close() error {
	var errs []error
	if s.Store != nil {
		errs = append(errs, s.Store.Close())
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
