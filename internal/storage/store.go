// Package storage is the persistence port for the paintstock collections.
//
// Every value is a JSON document addressed by a collection key, mirroring the
// key/value layout the shop's data has always used. Drivers differ only in
// where the documents live; all of them commit a transaction's writes
// together or not at all.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paintstock/paintstock/internal/shared"
)

// Collection names a persisted document.
type Collection string

const (
	Products          Collection = "products"
	Customers         Collection = "customers"
	Sales             Collection = "sales"
	Users             Collection = "users"
	LowStockThreshold Collection = "lowStockThreshold"
	AuthToken         Collection = "authToken"
	UserData          Collection = "userData"
)

// AllCollections lists every key the application writes.
var AllCollections = []Collection{Products, Customers, Sales, Users, LowStockThreshold, AuthToken, UserData}

// ErrConflict is returned when a transaction lost a race against another writer.
var ErrConflict = fmt.Errorf("storage: concurrent modification: %w", shared.ErrConflict)

// Tx exposes collection access. A missing collection loads as (nil, nil).
type Tx interface {
	LoadCollection(ctx context.Context, name Collection) ([]byte, error)
	SaveCollection(ctx context.Context, name Collection, data []byte) error
	DeleteCollection(ctx context.Context, names ...Collection) error
}

// Store is a Tx that can also open transactions. Writes made directly on the
// Store commit immediately.
type Store interface {
	Tx
	WithTx(ctx context.Context, fn func(context.Context, Tx) error) error
	Close() error
}

// Load decodes the named collection into dest. It reports false when the
// collection has never been written.
func Load[T any](ctx context.Context, tx Tx, name Collection, dest *T) (bool, error) {
	raw, err := tx.LoadCollection(ctx, name)
	if err != nil {
		return false, fmt.Errorf("storage: load %s: %w", name, err)
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("storage: decode %s: %w", name, err)
	}
	return true, nil
}

// Save encodes v and writes it under name.
func Save[T any](ctx context.Context, tx Tx, name Collection, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", name, err)
	}
	if err := tx.SaveCollection(ctx, name, raw); err != nil {
		return fmt.Errorf("storage: save %s: %w", name, err)
	}
	return nil
}
