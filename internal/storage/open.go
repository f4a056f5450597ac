package storage

import (
	"context"
	"fmt"
)

// Driver selects the backing store.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverRedis    Driver = "redis"
	DriverPostgres Driver = "postgres"
)

// Config carries the settings every driver may need.
type Config struct {
	Driver      Driver
	FilePath    string
	RedisAddr   string
	RedisPrefix string
	PGDSN       string
}

// Open connects the configured driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile, "":
		return OpenFileStore(cfg.FilePath)
	case DriverRedis:
		client, err := NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.RedisPrefix), nil
	case DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg.PGDSN)
		if err != nil {
			return nil, err
		}
		store, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
