package analytics

import (
	"io"
	"strconv"

	"github.com/paintstock/paintstock/internal/tabular"
)

// WriteTopProductsCSV emits both rankings, one row per product per ranking.
func WriteTopProductsCSV(w io.Writer, top TopProducts) error {
	writer := tabular.NewWriter(w)
	if err := writer.Write([]string{"Ranking", "Rank", "Product Name", "Code", "Qty Sold", "Revenue"}); err != nil {
		return err
	}
	for _, section := range []struct {
		name  string
		stats []ProductStat
	}{
		{"Top Selling", top.TopSelling},
		{"Top Revenue", top.TopRevenue},
	} {
		for i, st := range section.stats {
			if err := writer.Write([]string{
				section.name,
				strconv.Itoa(i + 1),
				st.Name,
				st.Code,
				strconv.Itoa(st.Quantity),
				tabular.FormatFloat(st.Revenue),
			}); err != nil {
				return err
			}
		}
	}
	return writer.Flush()
}
