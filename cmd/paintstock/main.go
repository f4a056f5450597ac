package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/paintstock/paintstock/cmd/paintstock/cli"
	"github.com/paintstock/paintstock/internal/app"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.DefaultEnv())
	if err := root.ExecuteContext(ctx); err != nil {
		slog.Default().Error("paintstock", slog.Any("error", err))
		os.Exit(1)
	}
}
