// Package catalog owns the product collection: merging imported rows by
// product code, classifying stock levels and exporting the inventory.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paintstock/paintstock/internal/shared"
)

// DefaultLowStockThreshold applies until an operator stores another value.
const DefaultLowStockThreshold = 3

// Product is a sellable paint item. Code is the business key.
type Product struct {
	ID             shared.ID `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	ColourBase     string    `json:"colourBase"`
	Company        string    `json:"company"`
	QuantityLiters float64   `json:"quantityLiters"`
	QuantityUnits  int       `json:"quantityUnits"`
	Price          float64   `json:"price"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Report counts the outcome of one reconcile batch.
type Report struct {
	Imported                 int `json:"importedCount"`
	Updated                  int `json:"updatedCount"`
	Errors                   int `json:"errorCount"`
	SkippedMissingCodeOrName int `json:"skippedMissingCodeOrName"`
}

// Describe renders the report the way the import screen announces it.
func (r Report) Describe() string {
	msg := fmt.Sprintf("%d new products imported, %d products updated.", r.Imported, r.Updated)
	if r.SkippedMissingCodeOrName > 0 {
		msg += fmt.Sprintf(" %d rows skipped for missing code or name.", r.SkippedMissingCodeOrName)
	}
	return msg
}

// StockStatus classifies a product against the low-stock threshold.
type StockStatus string

const (
	StatusOutOfStock StockStatus = "out_of_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusInStock    StockStatus = "in_stock"
)

// Stats summarises the catalog for the inventory screen.
type Stats struct {
	TotalProducts int     `json:"totalProducts"`
	TotalValue    float64 `json:"totalValue"`
	LowStockItems int     `json:"lowStockItems"`
}

// LowStockItem pairs a product with its classification.
type LowStockItem struct {
	Product
	Status StockStatus `json:"status"`
}

// LowStockReport lists every product at or below the threshold.
type LowStockReport struct {
	Threshold  int            `json:"threshold"`
	Items      []LowStockItem `json:"items"`
	OutOfStock int            `json:"outOfStock"`
}

// ProductForm is the manual entry payload. Liters and price are optional; a
// missing value behaves like an empty form field.
type ProductForm struct {
	Code           string   `json:"code" validate:"required,max=64"`
	Name           string   `json:"name" validate:"required,max=200"`
	ColourBase     string   `json:"colourBase" validate:"max=100"`
	Company        string   `json:"company" validate:"max=100"`
	QuantityLiters *float64 `json:"quantityLiters" validate:"omitempty,gte=0"`
	QuantityUnits  int      `json:"quantityUnits"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
}

// ProductEdit replaces every editable field of a stored product.
type ProductEdit struct {
	Code           string  `json:"code" validate:"required,max=64"`
	Name           string  `json:"name" validate:"required,max=200"`
	ColourBase     string  `json:"colourBase" validate:"max=100"`
	Company        string  `json:"company" validate:"max=100"`
	QuantityLiters float64 `json:"quantityLiters" validate:"gte=0"`
	QuantityUnits  int     `json:"quantityUnits" validate:"gte=0"`
	Price          float64 `json:"price" validate:"gte=0"`
}

// trimmed drops edge whitespace so stored text fields match what an import
// of the same values would produce.
func (e ProductEdit) trimmed() ProductEdit {
	e.Code = strings.TrimSpace(e.Code)
	e.Name = strings.TrimSpace(e.Name)
	e.ColourBase = strings.TrimSpace(e.ColourBase)
	e.Company = strings.TrimSpace(e.Company)
	return e
}

var (
	// ErrProductNotFound indicates an unknown product id.
	ErrProductNotFound = fmt.Errorf("catalog: product not found: %w", shared.ErrNotFound)
	// ErrDuplicateCode indicates two products sharing one code.
	ErrDuplicateCode = fmt.Errorf("catalog: duplicate product code: %w", shared.ErrConflict)
	// ErrMissingCodeOrName rejects a manual entry without its mandatory fields.
	ErrMissingCodeOrName = fmt.Errorf("catalog: code and name are required: %w", shared.ErrValidation)
	// ErrEmptyImport indicates a file without data rows.
	ErrEmptyImport = fmt.Errorf("catalog: import has no rows: %w", shared.ErrValidation)
	// ErrInvalidThreshold rejects a negative low-stock threshold.
	ErrInvalidThreshold = fmt.Errorf("catalog: threshold must be zero or more: %w", shared.ErrValidation)
)

func duplicateCode(code string) error {
	return fmt.Errorf("%w %q", ErrDuplicateCode, code)
}

// IsDuplicateCode reports whether err stems from a code collision.
func IsDuplicateCode(err error) bool {
	return errors.Is(err, ErrDuplicateCode)
}
