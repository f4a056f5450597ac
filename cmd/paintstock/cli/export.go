package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/paintstock/paintstock/internal/app"
)

func newExportCommand(r *runner) *cobra.Command {
	var (
		out  string
		term string
	)
	cmd := &cobra.Command{
		Use:       "export inventory|sales",
		Short:     "Write the inventory or the sales history as CSV",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"inventory", "sales"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withServices(cmd.Context(), func(ctx context.Context, _ *app.Config, svc *app.Services, logger *slog.Logger) error {
				var w io.Writer = cmd.OutOrStdout()
				if out != "" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				var err error
				switch args[0] {
				case "inventory":
					err = svc.Catalog.Export(ctx, w, term)
				case "sales":
					err = svc.Sales.ExportHistory(ctx, w, term)
				default:
					err = fmt.Errorf("unknown export %q", args[0])
				}
				if err != nil {
					return err
				}
				if out != "" {
					logger.Info("export written", slog.String("kind", args[0]), slog.String("path", out))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVarP(&term, "query", "q", "", "only rows matching this search term")
	return cmd
}
