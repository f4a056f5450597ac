// Package cli implements the paintstock command line.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/paintstock/paintstock/internal/app"
)

// Env carries the process collaborators. Tests swap in memory stores and
// buffers.
type Env struct {
	Stdout       io.Writer
	Stderr       io.Writer
	LoadConfig   func() (*app.Config, error)
	OpenServices func(ctx context.Context, cfg *app.Config, logger *slog.Logger) (*app.Services, error)
}

// DefaultEnv wires the real process environment.
func DefaultEnv() Env {
	return Env{
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		LoadConfig:   app.LoadConfig,
		OpenServices: app.OpenServices,
	}
}

type globalFlags struct {
	storeDriver string
	storeFile   string
}

// NewRootCommand assembles every subcommand.
func NewRootCommand(env Env) *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:           "paintstock",
		Short:         "Inventory and point-of-sale tracker for a paint shop",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)
	root.PersistentFlags().StringVar(&flags.storeDriver, "store", "", "storage driver override (memory, file, redis, postgres)")
	root.PersistentFlags().StringVar(&flags.storeFile, "file", "", "data file override for the file driver")

	r := &runner{env: env, flags: &flags}
	root.AddCommand(
		newServeCommand(r),
		newImportCommand(r),
		newExportCommand(r),
		newSeedCommand(r),
		newStatsCommand(r),
		newJobsCommand(r),
	)
	return root
}

// runner resolves configuration and services for a subcommand.
type runner struct {
	env   Env
	flags *globalFlags
}

func (r *runner) config() (*app.Config, error) {
	cfg, err := r.env.LoadConfig()
	if err != nil {
		return nil, err
	}
	if r.flags.storeDriver != "" {
		cfg.StoreDriver = r.flags.storeDriver
	}
	if r.flags.storeFile != "" {
		cfg.StoreFilePath = r.flags.storeFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withServices opens the services for the duration of fn.
func (r *runner) withServices(ctx context.Context, fn func(ctx context.Context, cfg *app.Config, svc *app.Services, logger *slog.Logger) error) error {
	cfg, err := r.config()
	if err != nil {
		return err
	}
	logger := app.NewLoggerTo(r.env.Stderr, cfg)
	svc, err := r.env.OpenServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("close services", slog.Any("error", err))
		}
	}()
	return fn(ctx, cfg, svc, logger)
}

func (r *runner) printer() *message.Printer {
	return message.NewPrinter(language.English)
}
