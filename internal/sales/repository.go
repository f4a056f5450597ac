package sales

import (
	"context"
	"fmt"

	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/storage"
)

// LoadSales reads the sales log.
func LoadSales(ctx context.Context, tx storage.Tx) ([]Sale, error) {
	var sales []Sale
	if _, err := storage.Load(ctx, tx, storage.Sales, &sales); err != nil {
		return nil, fmt.Errorf("sales: load sales: %w", err)
	}
	if sales == nil {
		sales = []Sale{}
	}
	return sales, nil
}

// LoadCustomers reads the customer log.
func LoadCustomers(ctx context.Context, tx storage.Tx) ([]Customer, error) {
	var customers []Customer
	if _, err := storage.Load(ctx, tx, storage.Customers, &customers); err != nil {
		return nil, fmt.Errorf("sales: load customers: %w", err)
	}
	if customers == nil {
		customers = []Customer{}
	}
	return customers, nil
}

func loadState(ctx context.Context, tx storage.Tx) (State, error) {
	products, err := catalog.LoadProducts(ctx, tx)
	if err != nil {
		return State{}, err
	}
	sales, err := LoadSales(ctx, tx)
	if err != nil {
		return State{}, err
	}
	customers, err := LoadCustomers(ctx, tx)
	if err != nil {
		return State{}, err
	}
	return State{Products: products, Sales: sales, Customers: customers}, nil
}

func saveState(ctx context.Context, tx storage.Tx, state State) error {
	if err := catalog.SaveProducts(ctx, tx, state.Products); err != nil {
		return err
	}
	if err := storage.Save(ctx, tx, storage.Sales, state.Sales); err != nil {
		return fmt.Errorf("sales: save sales: %w", err)
	}
	if err := storage.Save(ctx, tx, storage.Customers, state.Customers); err != nil {
		return fmt.Errorf("sales: save customers: %w", err)
	}
	return nil
}
