package catalog

import (
	"context"
	"fmt"

	"github.com/paintstock/paintstock/internal/storage"
)

// LoadProducts reads the product collection. A missing collection is empty.
func LoadProducts(ctx context.Context, tx storage.Tx) ([]Product, error) {
	var products []Product
	if _, err := storage.Load(ctx, tx, storage.Products, &products); err != nil {
		return nil, fmt.Errorf("catalog: load products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// SaveProducts replaces the product collection after checking code
// uniqueness.
func SaveProducts(ctx context.Context, tx storage.Tx, products []Product) error {
	if err := checkUniqueCodes(products); err != nil {
		return err
	}
	if err := storage.Save(ctx, tx, storage.Products, products); err != nil {
		return fmt.Errorf("catalog: save products: %w", err)
	}
	return nil
}

// LoadThreshold reads the low-stock threshold, falling back to the default.
func LoadThreshold(ctx context.Context, tx storage.Tx) (int, error) {
	var threshold int
	found, err := storage.Load(ctx, tx, storage.LowStockThreshold, &threshold)
	if err != nil {
		return 0, fmt.Errorf("catalog: load threshold: %w", err)
	}
	if !found {
		return DefaultLowStockThreshold, nil
	}
	return threshold, nil
}
