// Package analytics aggregates the catalog and sales log into the dashboard
// and product ranking views.
package analytics

import (
	"fmt"

	"github.com/paintstock/paintstock/internal/shared"
)

// ErrUnknownChart rejects an unsupported chart name.
var ErrUnknownChart = fmt.Errorf("analytics: unknown chart: %w", shared.ErrNotFound)

// DefaultTopLimit is how many products each ranking shows.
const DefaultTopLimit = 5

// Dashboard is the landing page summary.
type Dashboard struct {
	TotalProducts  int     `json:"totalProducts"`
	LowStockItems  int     `json:"lowStockItems"`
	TotalCustomers int     `json:"totalCustomers"`
	TotalSales     float64 `json:"totalSales"`
	Threshold      int     `json:"lowStockThreshold"`
}

// ProductStat aggregates every sold line of one product.
type ProductStat struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// TopProducts ranks products by units sold and by revenue.
type TopProducts struct {
	TopSelling []ProductStat `json:"topSelling"`
	TopRevenue []ProductStat `json:"topRevenue"`
}
