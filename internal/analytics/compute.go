package analytics

import (
	"sort"

	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/sales"
)

// ComputeDashboard totals the collections. Low stock uses the shared
// catalog predicate.
func ComputeDashboard(products []catalog.Product, customers []sales.Customer, log []sales.Sale, threshold int) Dashboard {
	d := Dashboard{
		TotalProducts:  len(products),
		TotalCustomers: len(customers),
		Threshold:      threshold,
	}
	for _, p := range products {
		if catalog.IsLowStock(p.QuantityUnits, threshold) {
			d.LowStockItems++
		}
	}
	for _, s := range log {
		d.TotalSales += s.TotalPrice
	}
	return d
}

// ComputeTopProducts aggregates sold lines per product id. Name and code come
// from the current catalog when the product still exists, else from the
// first sold snapshot. Ties keep first-sold order.
func ComputeTopProducts(products []catalog.Product, log []sales.Sale, limit int) TopProducts {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	current := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		current[p.ID.String()] = p
	}

	var order []string
	stats := make(map[string]*ProductStat)
	for _, s := range log {
		for _, line := range s.Products {
			id := line.ProductID.String()
			stat, ok := stats[id]
			if !ok {
				stat = &ProductStat{ProductID: id, Name: line.ProductName, Code: line.ProductCode}
				if p, found := current[id]; found {
					stat.Name, stat.Code = p.Name, p.Code
				}
				stats[id] = stat
				order = append(order, id)
			}
			stat.Quantity += line.Quantity
			stat.Revenue += line.Price * float64(line.Quantity)
		}
	}

	all := make([]ProductStat, 0, len(order))
	for _, id := range order {
		all = append(all, *stats[id])
	}

	bySelling := append([]ProductStat(nil), all...)
	sort.SliceStable(bySelling, func(i, j int) bool { return bySelling[i].Quantity > bySelling[j].Quantity })
	byRevenue := append([]ProductStat(nil), all...)
	sort.SliceStable(byRevenue, func(i, j int) bool { return byRevenue[i].Revenue > byRevenue[j].Revenue })

	return TopProducts{TopSelling: head(bySelling, limit), TopRevenue: head(byRevenue, limit)}
}

func head(stats []ProductStat, n int) []ProductStat {
	if len(stats) > n {
		return stats[:n]
	}
	if stats == nil {
		return []ProductStat{}
	}
	return stats
}
