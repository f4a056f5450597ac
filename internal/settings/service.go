// Package settings holds shop-wide maintenance operations: the low-stock
// threshold, backups, and clearing every stored collection.
package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/shared"
	"github.com/paintstock/paintstock/internal/storage"
)

// Notifier is told after bulk writes that touch both catalog and sales.
type Notifier interface {
	CatalogChanged(ctx context.Context)
	SalesChanged(ctx context.Context)
}

// Backup maps collection names to their raw JSON documents.
type Backup map[storage.Collection]json.RawMessage

// ErrUnknownCollection rejects restore documents the application never writes.
var ErrUnknownCollection = fmt.Errorf("settings: unknown collection: %w", shared.ErrValidation)

// Service exposes the maintenance operations.
type Service struct {
	store    storage.Store
	catalog  *catalog.Service
	notifier Notifier
}

// NewService builds Service. notifier may be nil.
func NewService(store storage.Store, products *catalog.Service, notifier Notifier) *Service {
	return &Service{store: store, catalog: products, notifier: notifier}
}

// Threshold returns the stored low-stock threshold.
func (s *Service) Threshold(ctx context.Context) (int, error) {
	return s.catalog.Threshold(ctx)
}

// SetThreshold persists a new low-stock threshold.
func (s *Service) SetThreshold(ctx context.Context, threshold int) error {
	return s.catalog.SetThreshold(ctx, threshold)
}

// ClearData removes every collection, session markers included, in one
// transaction.
func (s *Service) ClearData(ctx context.Context) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.DeleteCollection(ctx, storage.AllCollections...)
	})
	if err != nil {
		return fmt.Errorf("settings: clear data: %w", err)
	}
	s.changed(ctx)
	return nil
}

// Backup snapshots every stored collection. Missing collections are omitted.
func (s *Service) Backup(ctx context.Context) (Backup, error) {
	out := make(Backup)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		for _, name := range storage.AllCollections {
			raw, err := tx.LoadCollection(ctx, name)
			if err != nil {
				return err
			}
			if raw != nil {
				out[name] = json.RawMessage(raw)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("settings: backup: %w", err)
	}
	return out, nil
}

// Restore replaces the stored collections with a backup. Collections absent
// from the backup are removed. The products document must decode and carry
// unique codes.
func (s *Service) Restore(ctx context.Context, backup Backup) error {
	known := make(map[storage.Collection]bool, len(storage.AllCollections))
	for _, name := range storage.AllCollections {
		known[name] = true
	}
	for name, raw := range backup {
		if !known[name] {
			return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
		}
		if !json.Valid(raw) {
			return fmt.Errorf("settings: %s is not valid JSON: %w", name, shared.ErrValidation)
		}
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.DeleteCollection(ctx, storage.AllCollections...); err != nil {
			return err
		}
		for name, raw := range backup {
			if err := tx.SaveCollection(ctx, name, raw); err != nil {
				return err
			}
		}
		if _, ok := backup[storage.Products]; !ok {
			return nil
		}
		products, err := catalog.LoadProducts(ctx, tx)
		if err != nil {
			return fmt.Errorf("%w: products: %v", shared.ErrValidation, err)
		}
		return catalog.SaveProducts(ctx, tx, products)
	})
	if err != nil {
		return fmt.Errorf("settings: restore: %w", err)
	}
	s.changed(ctx)
	return nil
}

func (s *Service) changed(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.CatalogChanged(ctx)
		s.notifier.SalesChanged(ctx)
	}
}
