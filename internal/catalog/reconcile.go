package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/paintstock/paintstock/internal/shared"
	"github.com/paintstock/paintstock/internal/tabular"
)

// LitersPolicy decides what happens to the stored liters of a product that
// already exists when a row for it arrives.
type LitersPolicy uint8

const (
	// LitersUnchangedOnUpdate keeps stored liters. Used by bulk import.
	LitersUnchangedOnUpdate LitersPolicy = iota
	// LitersFirstFill sets liters from the row only while the stored value
	// is exactly zero and the row carries a value. Used by manual entry.
	LitersFirstFill
)

// Options injects the non-deterministic parts of a merge.
type Options struct {
	Liters LitersPolicy
	NewID  func() shared.ID
	Now    func() time.Time
}

func (o Options) withDefaults() Options {
	if o.NewID == nil {
		o.NewID = func() shared.ID { return shared.ID(uuid.NewString()) }
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// Reconcile merges rows into existing by product code. Existing products keep
// their order and new ones follow in row order. The input slice is not
// modified.
func Reconcile(existing []Product, rows []tabular.Row, opts Options) ([]Product, Report, error) {
	opts = opts.withDefaults()

	out := make([]Product, len(existing), len(existing)+len(rows))
	copy(out, existing)
	index := make(map[string]int, len(out))
	for i, p := range out {
		if _, dup := index[p.Code]; dup {
			return nil, Report{}, duplicateCode(p.Code)
		}
		index[p.Code] = i
	}

	var report Report
	for _, row := range rows {
		e, ok := resolve(row)
		if !ok {
			report.SkippedMissingCodeOrName++
			continue
		}
		if i, found := index[e.code]; found {
			merge(&out[i], e, opts.Liters)
			report.Updated++
			continue
		}
		out = append(out, create(e, opts))
		index[e.code] = len(out) - 1
		report.Imported++
	}
	return out, report, nil
}

// ApplyEntry merges a single row, returning the resulting catalog, the
// affected product and whether it was created. A row without code or name is
// rejected rather than counted.
func ApplyEntry(existing []Product, row tabular.Row, opts Options) ([]Product, Product, bool, error) {
	if _, ok := resolve(row); !ok {
		return nil, Product{}, false, ErrMissingCodeOrName
	}
	out, report, err := Reconcile(existing, []tabular.Row{row}, opts)
	if err != nil {
		return nil, Product{}, false, err
	}
	code := lookup(row, codeAliases).String()
	for _, p := range out {
		if p.Code == code {
			return out, p, report.Imported == 1, nil
		}
	}
	return out, Product{}, false, ErrProductNotFound
}

func merge(p *Product, e entry, policy LitersPolicy) {
	p.QuantityUnits += e.units
	if e.price != 0 {
		p.Price = e.price
	}
	if e.name != "" {
		p.Name = e.name
	}
	if e.colourBase != "" {
		p.ColourBase = e.colourBase
	}
	if e.company != "" {
		p.Company = e.company
	}
	if policy == LitersFirstFill && e.hasLiters && p.QuantityLiters == 0 {
		p.QuantityLiters = e.liters
	}
}

func create(e entry, opts Options) Product {
	return Product{
		ID:             opts.NewID(),
		Code:           e.code,
		Name:           e.name,
		ColourBase:     e.colourBase,
		Company:        e.company,
		QuantityLiters: e.liters,
		QuantityUnits:  e.units,
		Price:          e.price,
		CreatedAt:      opts.Now(),
	}
}

// checkUniqueCodes guards every catalog write.
func checkUniqueCodes(products []Product) error {
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.Code]; dup {
			return duplicateCode(p.Code)
		}
		seen[p.Code] = struct{}{}
	}
	return nil
}
