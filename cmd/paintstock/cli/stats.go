package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/paintstock/paintstock/internal/app"
)

func newStatsCommand(r *runner) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard totals and the best selling products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withServices(cmd.Context(), func(ctx context.Context, _ *app.Config, svc *app.Services, _ *slog.Logger) error {
				dash, err := svc.Analytics.Dashboard(ctx)
				if err != nil {
					return err
				}
				stock, err := svc.Catalog.Stats(ctx)
				if err != nil {
					return err
				}
				top, err := svc.Analytics.TopProducts(ctx, limit)
				if err != nil {
					return err
				}

				p := r.printer()
				w := cmd.OutOrStdout()
				p.Fprintf(w, "products: %d (low stock: %d at threshold %d)\n", dash.TotalProducts, dash.LowStockItems, dash.Threshold)
				p.Fprintf(w, "stock value: %.2f\n", stock.TotalValue)
				p.Fprintf(w, "customers: %d\n", dash.TotalCustomers)
				p.Fprintf(w, "sales revenue: %.2f\n", dash.TotalSales)
				if len(top.TopSelling) > 0 {
					p.Fprintf(w, "top selling:\n")
					for i, st := range top.TopSelling {
						p.Fprintf(w, "  %d. %s (%s): %d units\n", i+1, st.Name, st.Code, st.Quantity)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "top", 5, "number of products in the ranking")
	return cmd
}
