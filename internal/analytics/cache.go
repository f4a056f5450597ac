package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	versionSuffix = "analytics:version"
	bumpSuffix    = "analytics.bump"
)

// Cache stores computed views in Redis under a global version. Writes bump
// the version so stale entries are never read again and expire by TTL. A nil
// Cache computes every request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// NewCache instantiates the cache helper. prefix namespaces every key.
func NewCache(client *redis.Client, ttl time.Duration, prefix string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{client: client, ttl: ttl, prefix: prefix, logger: logger}
}

func (c *Cache) versionKey() string { return c.prefix + versionSuffix }

func (c *Cache) channel() string { return c.prefix + bumpSuffix }

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) || (err == nil && ver <= 0) {
		if err := c.client.SetNX(ctx, c.versionKey(), 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, c.versionKey()).Int64()
	}
	return ver, err
}

// BuildKey composes the cache key with the current version.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return c.prefix + "analytics:" + joined + ":" + strconv.FormatInt(ver, 10), nil
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("analytics: cache loader required")
	}
	if c != nil && c.client != nil {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c != nil && c.client != nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates the cache by incrementing the global version and
// publishing the new value to other instances.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, c.versionKey()).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, c.channel(), strconv.FormatInt(ver, 10)).Err()
}

// CatalogChanged bumps the version after a catalog write.
func (c *Cache) CatalogChanged(ctx context.Context) { c.bumpLogged(ctx, "catalog") }

// SalesChanged bumps the version after a sale.
func (c *Cache) SalesChanged(ctx context.Context) { c.bumpLogged(ctx, "sales") }

func (c *Cache) bumpLogged(ctx context.Context, source string) {
	if c == nil {
		return
	}
	if err := c.Bump(ctx); err != nil {
		c.logger.Warn("analytics cache bump failed", slog.String("source", source), slog.Any("error", err))
	}
}

// ListenForInvalidation calls onBump for every version published by Bump
// until ctx is done.
func (c *Cache) ListenForInvalidation(ctx context.Context, onBump func(context.Context, int64)) error {
	if c == nil || c.client == nil {
		return nil
	}
	pubsub := c.client.Subscribe(ctx, c.channel())
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				ver, err := strconv.ParseInt(msg.Payload, 10, 64)
				if err != nil {
					c.logger.Warn("analytics cache bump payload", slog.String("payload", msg.Payload))
					continue
				}
				if onBump != nil {
					onBump(ctx, ver)
				}
			}
		}
	}()
	return nil
}
