package catalog

import (
	"strings"

	"github.com/paintstock/paintstock/internal/tabular"
)

// Accepted header names per field, tried in order. The first present value
// wins.
var (
	codeAliases       = []string{"Code", "code"}
	nameAliases       = []string{"Product Name", "name", "Product_Name"}
	unitsAliases      = []string{"Quantity (Units)", "quantityUnits", "Quantity_Units"}
	litersAliases     = []string{"Quantity (L)", "quantityLiters", "Quantity_L"}
	priceAliases      = []string{"Price", "price"}
	colourBaseAliases = []string{"Colour Base", "colourBase", "Colour_Base"}
	companyAliases    = []string{"Company", "company"}
)

func lookup(row tabular.Row, aliases []string) tabular.Value {
	for _, alias := range aliases {
		if v := row.Get(alias); v.Present() {
			return v
		}
	}
	return tabular.Value{}
}

// entry is a row resolved to canonical fields.
type entry struct {
	code       string
	name       string
	colourBase string
	company    string
	units      int
	liters     float64
	hasLiters  bool
	price      float64
}

func resolve(row tabular.Row) (entry, bool) {
	e := entry{
		code:       lookup(row, codeAliases).String(),
		name:       lookup(row, nameAliases).String(),
		colourBase: lookup(row, colourBaseAliases).String(),
		company:    lookup(row, companyAliases).String(),
		units:      lookup(row, unitsAliases).Int(),
		price:      lookup(row, priceAliases).Float(),
	}
	liters := lookup(row, litersAliases)
	e.liters = liters.Float()
	e.hasLiters = liters.Present()
	return e, e.code != "" && e.name != ""
}

// Row converts the form into the same shape an imported line has.
func (f ProductForm) Row() tabular.Row {
	row := tabular.Row{
		"code":          tabular.TextValue(strings.TrimSpace(f.Code)),
		"name":          tabular.TextValue(strings.TrimSpace(f.Name)),
		"colourBase":    tabular.TextValue(strings.TrimSpace(f.ColourBase)),
		"company":       tabular.TextValue(strings.TrimSpace(f.Company)),
		"quantityUnits": tabular.NumberValue(float64(f.QuantityUnits)),
	}
	if f.QuantityLiters != nil {
		row["quantityLiters"] = tabular.NumberValue(*f.QuantityLiters)
	}
	if f.Price != nil {
		row["price"] = tabular.NumberValue(*f.Price)
	}
	return row
}
