package catalog

import (
	"io"
	"strconv"

	"github.com/paintstock/paintstock/internal/tabular"
)

// InventoryHeader is the fixed first line of an inventory export.
var InventoryHeader = []string{"Product Name", "Code", "Colour Base", "Company", "Quantity (L)", "Quantity (Units)", "Price"}

// WriteInventoryCSV serialises products in the inventory import format, so
// the file can be read back by Import.
func WriteInventoryCSV(w io.Writer, products []Product) error {
	writer := tabular.NewWriter(w)
	if err := writer.Write(InventoryHeader); err != nil {
		return err
	}
	for _, p := range products {
		if err := writer.Write([]string{
			p.Name,
			p.Code,
			p.ColourBase,
			p.Company,
			tabular.FormatFloat(p.QuantityLiters),
			strconv.Itoa(p.QuantityUnits),
			tabular.FormatFloat(p.Price),
		}); err != nil {
			return err
		}
	}
	return writer.Flush()
}
