package sales

import (
	"io"
	"strconv"
	"strings"

	"github.com/paintstock/paintstock/internal/tabular"
)

// DefaultDateLayout renders the sale date column.
const DefaultDateLayout = "2006-01-02"

// HistoryHeader is the fixed first line of a sales history export.
var HistoryHeader = []string{
	"Customer Name", "Mobile Number", "Sale Date", "Product Name", "Product Code",
	"Colour Base", "Company", "Qty (L)", "Qty Purchased", "Color Codes", "Price",
}

// WriteHistoryCSV serialises flattened history lines.
func WriteHistoryCSV(w io.Writer, lines []HistoryLine, dateLayout string) error {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	writer := tabular.NewWriter(w)
	if err := writer.Write(HistoryHeader); err != nil {
		return err
	}
	for _, l := range lines {
		if err := writer.Write([]string{
			l.CustomerName,
			l.CustomerMobile,
			l.SaleDate.Format(dateLayout),
			l.ProductName,
			l.ProductCode,
			l.ColourBase,
			l.Company,
			tabular.FormatFloat(l.QuantityLiters),
			strconv.Itoa(l.Quantity),
			strings.Join(l.ColorCodes, ", "),
			tabular.FormatFloat(l.Price),
		}); err != nil {
			return err
		}
	}
	return writer.Flush()
}
