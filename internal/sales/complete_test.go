package sales

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/shared"
)

var saleTime = time.Date(2024, 5, 6, 14, 0, 0, 0, time.UTC)

func fixedOptions() Options {
	n := 0
	return Options{
		NewID: func() shared.ID {
			n++
			return shared.ID(fmt.Sprintf("s-%d", n))
		},
		Now: func() time.Time { return saleTime },
	}
}

func baseState() State {
	return State{
		Products: []catalog.Product{
			{ID: "p1", Code: "P1", Name: "Primer", ColourBase: "White", Company: "Acme", QuantityLiters: 1, QuantityUnits: 5, Price: 100},
			{ID: "p2", Code: "P2", Name: "Gloss", QuantityUnits: 2, Price: 80},
		},
		Sales:     []Sale{},
		Customers: []Customer{},
	}
}

func TestCompleteSaleDecrementsUnits(t *testing.T) {
	state := baseState()
	next, sale, err := CompleteSale(state, CompleteSaleInput{
		CustomerName:   "Asha",
		CustomerMobile: "9876543210",
		ColorCodes:     []string{" RAL 9010 ", ""},
		Items:          []ItemInput{{ProductID: "p1", Quantity: 3}},
	}, fixedOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, next.Products[0].QuantityUnits)
	assert.Equal(t, 5, state.Products[0].QuantityUnits, "input state untouched")
	assert.Equal(t, 2, next.Products[1].QuantityUnits)

	assert.Equal(t, shared.ID("s-1"), sale.ID)
	assert.Equal(t, []string{"RAL 9010"}, sale.ColorCodes)
	assert.InDelta(t, 300, sale.TotalPrice, 1e-9)
	assert.Equal(t, saleTime, sale.SaleDate)
	assert.Equal(t, LineItem{
		ProductID: "p1", ProductName: "Primer", ProductCode: "P1", ColourBase: "White",
		Company: "Acme", QuantityLiters: 1, Price: 100, Quantity: 3,
	}, sale.Products[0])

	require.Len(t, next.Sales, 1)
	require.Len(t, next.Customers, 1)
	assert.Equal(t, shared.ID("s-2"), next.Customers[0].ID)
	assert.Equal(t, "9876543210", next.Customers[0].Mobile)
	assert.Equal(t, sale.ID, next.Customers[0].Purchases[0].SaleID)
}

func TestCompleteSaleRefusesOversell(t *testing.T) {
	state := baseState()
	next, _, err := CompleteSale(state, CompleteSaleInput{
		CustomerName:   "Asha",
		CustomerMobile: "1",
		Items:          []ItemInput{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 3}},
	}, fixedOptions())
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.ErrorIs(t, err, shared.ErrBusinessRule)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "P2", stockErr.ProductCode)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	assert.Equal(t, state, next)
	assert.Equal(t, 5, next.Products[0].QuantityUnits)
	assert.Empty(t, next.Sales)
	assert.Empty(t, next.Customers)
}

func TestCompleteSaleSumsRepeatedLines(t *testing.T) {
	_, _, err := CompleteSale(baseState(), CompleteSaleInput{
		CustomerName:   "Asha",
		CustomerMobile: "1",
		Items:          []ItemInput{{ProductID: "p2", Quantity: 1}, {ProductID: "p2", Quantity: 2}},
	}, fixedOptions())
	require.ErrorIs(t, err, ErrInsufficientStock)

	next, _, err := CompleteSale(baseState(), CompleteSaleInput{
		CustomerName:   "Asha",
		CustomerMobile: "1",
		Items:          []ItemInput{{ProductID: "p2", Quantity: 1}, {ProductID: "p2", Quantity: 1}},
	}, fixedOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, next.Products[1].QuantityUnits)
}

func TestCompleteSaleSellsExactStock(t *testing.T) {
	next, _, err := CompleteSale(baseState(), CompleteSaleInput{
		CustomerName:   "Asha",
		CustomerMobile: "1",
		Items:          []ItemInput{{ProductID: "p1", Quantity: 5}},
	}, fixedOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, next.Products[0].QuantityUnits)
}

func TestCompleteSaleValidation(t *testing.T) {
	cases := []struct {
		name string
		in   CompleteSaleInput
		want error
	}{
		{"no items", CompleteSaleInput{CustomerName: "a", CustomerMobile: "1"}, ErrNoItems},
		{"no customer", CompleteSaleInput{CustomerMobile: "1", Items: []ItemInput{{ProductID: "p1", Quantity: 1}}}, ErrCustomerRequired},
		{"no mobile", CompleteSaleInput{CustomerName: "a", CustomerMobile: "  ", Items: []ItemInput{{ProductID: "p1", Quantity: 1}}}, ErrCustomerRequired},
		{"zero quantity", CompleteSaleInput{CustomerName: "a", CustomerMobile: "1", Items: []ItemInput{{ProductID: "p1"}}}, ErrInvalidQuantity},
		{"unknown product", CompleteSaleInput{CustomerName: "a", CustomerMobile: "1", Items: []ItemInput{{ProductID: "zz", Quantity: 1}}}, ErrProductNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := baseState()
			next, _, err := CompleteSale(state, tc.in, fixedOptions())
			require.ErrorIs(t, err, tc.want)
			require.Equal(t, state, next)
		})
	}
}

func TestCompleteSalePriceOverrideAndExistingCustomer(t *testing.T) {
	state := baseState()
	state.Customers = []Customer{{ID: "c1", Name: "Asha K", Mobile: "55", Purchases: []Purchase{{SaleID: "old"}}}}
	override := 90.0

	next, sale, err := CompleteSale(state, CompleteSaleInput{
		CustomerName:   "Asha",
		CustomerMobile: "55",
		Items:          []ItemInput{{ProductID: "p1", Quantity: 2, Price: &override}, {ProductID: "p2", Quantity: 1}},
	}, fixedOptions())
	require.NoError(t, err)
	assert.InDelta(t, 260, sale.TotalPrice, 1e-9)
	assert.Equal(t, 100.0, next.Products[0].Price, "catalog price unchanged")

	require.Len(t, next.Customers, 1)
	assert.Equal(t, "Asha K", next.Customers[0].Name)
	require.Len(t, next.Customers[0].Purchases, 2)
	assert.Len(t, state.Customers[0].Purchases, 1, "input purchases untouched")
}
