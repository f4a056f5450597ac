package catalog

// IsLowStock reports whether units sit at or below threshold. Every view uses
// this predicate.
func IsLowStock(units, threshold int) bool {
	return units <= threshold
}

// Status classifies units against threshold.
func Status(units, threshold int) StockStatus {
	switch {
	case units <= 0:
		return StatusOutOfStock
	case IsLowStock(units, threshold):
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ComputeStats derives the inventory summary.
func ComputeStats(products []Product, threshold int) Stats {
	stats := Stats{TotalProducts: len(products)}
	for _, p := range products {
		stats.TotalValue += p.Price * float64(p.QuantityUnits)
		if IsLowStock(p.QuantityUnits, threshold) {
			stats.LowStockItems++
		}
	}
	return stats
}

// ClassifyLowStock lists products at or below threshold in catalog order.
func ClassifyLowStock(products []Product, threshold int) LowStockReport {
	report := LowStockReport{Threshold: threshold, Items: []LowStockItem{}}
	for _, p := range products {
		if !IsLowStock(p.QuantityUnits, threshold) {
			continue
		}
		status := Status(p.QuantityUnits, threshold)
		if status == StatusOutOfStock {
			report.OutOfStock++
		}
		report.Items = append(report.Items, LowStockItem{Product: p, Status: status})
	}
	return report
}
