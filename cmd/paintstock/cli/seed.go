package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/paintstock/paintstock/internal/app"
	"github.com/paintstock/paintstock/internal/sales"
	"github.com/paintstock/paintstock/internal/shared"
	"github.com/paintstock/paintstock/internal/tabular"
)

// seedFile is the fixture layout read by the seed command.
type seedFile struct {
	LowStockThreshold *int             `yaml:"lowStockThreshold"`
	Products          []map[string]any `yaml:"products"`
	Sales             []seedSale       `yaml:"sales"`
}

type seedSale struct {
	CustomerName   string     `yaml:"customerName"`
	CustomerMobile string     `yaml:"customerMobile"`
	ColorCodes     []string   `yaml:"colorCodes"`
	Items          []seedItem `yaml:"items"`
}

// seedItem references a product by code since fixture authors do not know
// generated IDs.
type seedItem struct {
	Code     string   `yaml:"code"`
	Quantity int      `yaml:"quantity"`
	Price    *float64 `yaml:"price"`
}

type seedResult struct {
	Imported int
	Updated  int
	Sales    int
	Revenue  float64
}

func newSeedCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load products, sales and the threshold from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var fixture seedFile
			if err := yaml.Unmarshal(data, &fixture); err != nil {
				return fmt.Errorf("%w: %s: %v", shared.ErrValidation, args[0], err)
			}
			return r.withServices(cmd.Context(), func(ctx context.Context, _ *app.Config, svc *app.Services, logger *slog.Logger) error {
				res, err := applySeed(ctx, svc, fixture)
				if err != nil {
					return err
				}
				logger.Info("seed applied", slog.String("file", args[0]))
				r.printer().Fprintf(cmd.OutOrStdout(),
					"products imported: %d, updated: %d\nsales recorded: %d, revenue: %.2f\n",
					res.Imported, res.Updated, res.Sales, res.Revenue)
				return nil
			})
		},
	}
}

func applySeed(ctx context.Context, svc *app.Services, fixture seedFile) (seedResult, error) {
	var res seedResult
	if fixture.LowStockThreshold != nil {
		if err := svc.Catalog.SetThreshold(ctx, *fixture.LowStockThreshold); err != nil {
			return res, err
		}
	}

	if len(fixture.Products) > 0 {
		rows := make([]tabular.Row, 0, len(fixture.Products))
		for i, m := range fixture.Products {
			row, err := tabular.RowFromMap(m)
			if err != nil {
				return res, fmt.Errorf("%w: product %d: %v", shared.ErrValidation, i+1, err)
			}
			rows = append(rows, row)
		}
		report, err := svc.Catalog.ImportRows(ctx, rows)
		if err != nil {
			return res, err
		}
		res.Imported, res.Updated = report.Imported, report.Updated
	}

	if len(fixture.Sales) == 0 {
		return res, nil
	}
	products, err := svc.Catalog.List(ctx)
	if err != nil {
		return res, err
	}
	byCode := make(map[string]shared.ID, len(products))
	for _, p := range products {
		byCode[p.Code] = p.ID
	}
	for i, s := range fixture.Sales {
		in := sales.CompleteSaleInput{
			CustomerName:   s.CustomerName,
			CustomerMobile: s.CustomerMobile,
			ColorCodes:     s.ColorCodes,
		}
		for _, item := range s.Items {
			id, ok := byCode[item.Code]
			if !ok {
				return res, fmt.Errorf("seed sale %d: product code %q: %w", i+1, item.Code, shared.ErrNotFound)
			}
			in.Items = append(in.Items, sales.ItemInput{ProductID: id, Quantity: item.Quantity, Price: item.Price})
		}
		sale, err := svc.Sales.Complete(ctx, in)
		if err != nil {
			return res, fmt.Errorf("seed sale %d: %w", i+1, err)
		}
		res.Sales++
		res.Revenue += sale.TotalPrice
	}
	return res, nil
}
