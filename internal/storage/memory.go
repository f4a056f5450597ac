package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps collections in process memory. Transactions are
// serialised by a single mutex, matching the one-session usage model.
type MemoryStore struct {
	mu      sync.Mutex
	data    map[Collection][]byte
	persist func(map[Collection][]byte) error
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[Collection][]byte)}
}

func (s *MemoryStore) LoadCollection(_ context.Context, name Collection) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBytes(s.data[name]), nil
}

func (s *MemoryStore) SaveCollection(ctx context.Context, name Collection, data []byte) error {
	return s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.SaveCollection(ctx, name, data)
	})
}

func (s *MemoryStore) DeleteCollection(ctx context.Context, names ...Collection) error {
	return s.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.DeleteCollection(ctx, names...)
	})
}

// WithTx runs fn against a staged view and applies its writes atomically.
// fn must use the supplied Tx; calling back into the store would deadlock.
func (s *MemoryStore) WithTx(ctx context.Context, fn func(context.Context, Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newStagedTx(func(_ context.Context, name Collection) ([]byte, error) {
		return cloneBytes(s.data[name]), nil
	})
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if tx.empty() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	next := make(map[Collection][]byte, len(s.data)+len(tx.changes))
	for k, v := range s.data {
		next[k] = v
	}
	for name, ch := range tx.changes {
		if ch.deleted {
			delete(next, name)
			continue
		}
		next[name] = ch.data
	}
	if s.persist != nil {
		if err := s.persist(next); err != nil {
			return err
		}
	}
	s.data = next
	return nil
}

func (s *MemoryStore) Close() error { return nil }
