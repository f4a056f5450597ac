package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage: redis ping: %w", err)
	}

	return client, nil
}

// RedisStore keeps each collection under its own key. Transactions WATCH every
// collection key and apply staged writes with MULTI/EXEC.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps client; prefix namespaces the keys (e.g. "paintstock:").
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name Collection) string {
	return s.prefix + string(name)
}

func (s *RedisStore) LoadCollection(ctx context.Context, name Collection) ([]byte, error) {
	return s.get(ctx, s.client, name)
}

func (s *RedisStore) get(ctx context.Context, cmd redis.Cmdable, name Collection) ([]byte, error) {
	raw, err := cmd.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *RedisStore) SaveCollection(ctx context.Context, name Collection, data []byte) error {
	return s.client.Set(ctx, s.key(name), data, 0).Err()
}

func (s *RedisStore) DeleteCollection(ctx context.Context, names ...Collection) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, s.key(name))
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisStore) WithTx(ctx context.Context, fn func(context.Context, Tx) error) error {
	keys := make([]string, 0, len(AllCollections))
	for _, name := range AllCollections {
		keys = append(keys, s.key(name))
	}

	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		staged := newStagedTx(func(ctx context.Context, name Collection) ([]byte, error) {
			return s.get(ctx, rtx, name)
		})
		if err := fn(ctx, staged); err != nil {
			return err
		}
		if staged.empty() {
			return nil
		}
		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for name, ch := range staged.changes {
				if ch.deleted {
					pipe.Del(ctx, s.key(name))
					continue
				}
				pipe.Set(ctx, s.key(name), ch.data, 0)
			}
			return nil
		})
		return err
	}, keys...)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
