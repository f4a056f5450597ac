package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/paintstock/paintstock/internal/app"
	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/shared"
	"github.com/paintstock/paintstock/internal/tabular"
)

func newImportCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a product file into the catalog",
		Long: "Merge a product file into the catalog by product code.\n" +
			"CSV is read by default; .json, .yaml and .yml files hold a list of row objects.\n" +
			"Use - to read CSV from standard input.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withServices(cmd.Context(), func(ctx context.Context, _ *app.Config, svc *app.Services, logger *slog.Logger) error {
				report, err := importFile(ctx, svc.Catalog, args[0], cmd.InOrStdin())
				if err != nil {
					return err
				}
				logger.Info("import finished", slog.String("file", args[0]), slog.Int("imported", report.Imported), slog.Int("updated", report.Updated))
				p := r.printer()
				p.Fprintf(cmd.OutOrStdout(), "%s\n", report.Describe())
				p.Fprintf(cmd.OutOrStdout(), "imported: %d\nupdated: %d\nskipped (missing code or name): %d\n",
					report.Imported, report.Updated, report.SkippedMissingCodeOrName)
				return nil
			})
		},
	}
}

func importFile(ctx context.Context, products *catalog.Service, path string, stdin io.Reader) (catalog.Report, error) {
	if path == "-" {
		return products.Import(ctx, stdin)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return catalog.Report{}, err
		}
		rows, err := decodeRowDocument(data)
		if err != nil {
			return catalog.Report{}, err
		}
		return products.ImportRows(ctx, rows)
	default:
		f, err := os.Open(path)
		if err != nil {
			return catalog.Report{}, err
		}
		defer f.Close()
		return products.Import(ctx, f)
	}
}

// decodeRowDocument reads a YAML (or JSON) list of row objects.
func decodeRowDocument(data []byte) ([]tabular.Row, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode rows: %v", shared.ErrValidation, err)
	}
	rows := make([]tabular.Row, 0, len(raw))
	for i, m := range raw {
		row, err := tabular.RowFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", shared.ErrValidation, i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
