package sales

import (
	"fmt"
	"time"

	"github.com/paintstock/paintstock/internal/shared"
)

// ============================================================================
// SALE
// ============================================================================

// LineItem is a snapshot of a product at the moment it was sold.
type LineItem struct {
	ProductID      shared.ID `json:"productId"`
	ProductName    string    `json:"productName"`
	ProductCode    string    `json:"productCode"`
	ColourBase     string    `json:"colourBase"`
	Company        string    `json:"company"`
	QuantityLiters float64   `json:"quantityLiters"`
	Price          float64   `json:"price"`
	Quantity       int       `json:"quantity"`
}

// Sale is immutable once appended to the sales log.
type Sale struct {
	ID             shared.ID  `json:"id"`
	CustomerName   string     `json:"customerName"`
	CustomerMobile string     `json:"customerMobile"`
	ColorCodes     []string   `json:"colorCodes"`
	Products       []LineItem `json:"products"`
	TotalPrice     float64    `json:"totalPrice"`
	SaleDate       time.Time  `json:"saleDate"`
}

// ItemInput requests quantity units of one product. Price overrides the
// catalog price for this sale only.
type ItemInput struct {
	ProductID shared.ID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
	Price     *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// CompleteSaleInput is the checkout payload.
type CompleteSaleInput struct {
	CustomerName   string      `json:"customerName" validate:"required,max=200"`
	CustomerMobile string      `json:"customerMobile" validate:"required,max=32"`
	ColorCodes     []string    `json:"colorCodes" validate:"dive,max=64"`
	Items          []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// ============================================================================
// CUSTOMER
// ============================================================================

// Purchase is a sale snapshot stored on the customer record.
type Purchase struct {
	SaleID shared.ID `json:"saleId"`
	Sale
}

// Customer is keyed by mobile number.
type Customer struct {
	ID        shared.ID  `json:"id"`
	Name      string     `json:"name"`
	Mobile    string     `json:"mobile"`
	Purchases []Purchase `json:"purchases"`
}

// CustomerSummary is the list view of a customer.
type CustomerSummary struct {
	ID            shared.ID `json:"id"`
	Name          string    `json:"name"`
	Mobile        string    `json:"mobile"`
	PurchaseCount int       `json:"purchaseCount"`
	TotalSpent    float64   `json:"totalSpent"`
	LastPurchase  time.Time `json:"lastPurchase"`
}

// ============================================================================
// HISTORY
// ============================================================================

// HistoryLine is one sold item joined with its sale.
type HistoryLine struct {
	SaleID         shared.ID `json:"saleId"`
	SaleDate       time.Time `json:"saleDate"`
	CustomerName   string    `json:"customerName"`
	CustomerMobile string    `json:"customerMobile"`
	ColorCodes     []string  `json:"colorCodes"`
	LineItem
}

// HistoryPage is a window over the flattened history.
type HistoryPage struct {
	Lines      []HistoryLine     `json:"lines"`
	Pagination shared.Pagination `json:"pagination"`
}

// ============================================================================
// ERRORS
// ============================================================================

var (
	// ErrNoItems rejects an empty cart.
	ErrNoItems = fmt.Errorf("sales: no products selected: %w", shared.ErrValidation)
	// ErrCustomerRequired rejects a sale without customer name or mobile.
	ErrCustomerRequired = fmt.Errorf("sales: customer name and mobile are required: %w", shared.ErrValidation)
	// ErrInvalidQuantity rejects a line with a non-positive quantity.
	ErrInvalidQuantity = fmt.Errorf("sales: quantity must be positive: %w", shared.ErrValidation)
	// ErrProductNotFound indicates a line referencing an unknown product.
	ErrProductNotFound = fmt.Errorf("sales: product not found: %w", shared.ErrNotFound)
	// ErrCustomerNotFound indicates an unknown mobile number.
	ErrCustomerNotFound = fmt.Errorf("sales: customer not found: %w", shared.ErrNotFound)
	// ErrInsufficientStock refuses a sale that would drive units below zero.
	ErrInsufficientStock = fmt.Errorf("sales: insufficient stock: %w", shared.ErrBusinessRule)
)

// InsufficientStockError details which product could not cover the request.
type InsufficientStockError struct {
	ProductID   shared.ID
	ProductCode string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("sales: insufficient stock for %s: requested %d, only %d units available", e.ProductCode, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
