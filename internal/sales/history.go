package sales

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/paintstock/paintstock/internal/catalog"
)

// Flatten expands every sale into one line per sold item, in log order.
func Flatten(sales []Sale) []HistoryLine {
	lines := make([]HistoryLine, 0, len(sales))
	for _, s := range sales {
		for _, item := range s.Products {
			lines = append(lines, HistoryLine{
				SaleID:         s.ID,
				SaleDate:       s.SaleDate,
				CustomerName:   s.CustomerName,
				CustomerMobile: s.CustomerMobile,
				ColorCodes:     s.ColorCodes,
				LineItem:       item,
			})
		}
	}
	return lines
}

// FilterHistory keeps lines whose customer name, product name or product code
// contains term case-insensitively, or whose mobile contains it verbatim.
func FilterHistory(lines []HistoryLine, term string) []HistoryLine {
	term = strings.TrimSpace(term)
	if term == "" {
		return lines
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]HistoryLine, 0, len(lines))
	for _, l := range lines {
		if strings.Contains(fold.String(l.CustomerName), needle) ||
			strings.Contains(l.CustomerMobile, term) ||
			strings.Contains(fold.String(l.ProductName), needle) ||
			strings.Contains(fold.String(l.ProductCode), needle) {
			out = append(out, l)
		}
	}
	return out
}

// SellableProducts lists products with stock whose name or code matches term.
func SellableProducts(products []catalog.Product, term string) []catalog.Product {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if p.QuantityUnits <= 0 {
			continue
		}
		if needle == "" ||
			strings.Contains(fold.String(p.Name), needle) ||
			strings.Contains(fold.String(p.Code), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Summarise builds the customer list, most recent buyer first.
func Summarise(customers []Customer) []CustomerSummary {
	out := make([]CustomerSummary, 0, len(customers))
	for _, c := range customers {
		summary := CustomerSummary{ID: c.ID, Name: c.Name, Mobile: c.Mobile, PurchaseCount: len(c.Purchases)}
		for _, p := range c.Purchases {
			summary.TotalSpent += p.TotalPrice
			if p.SaleDate.After(summary.LastPurchase) {
				summary.LastPurchase = p.SaleDate
			}
		}
		out = append(out, summary)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastPurchase.After(out[j].LastPurchase)
	})
	return out
}
