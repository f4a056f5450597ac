package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/paintstock/paintstock/internal/app"
	"github.com/paintstock/paintstock/jobs"
)

func newServeCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withServices(cmd.Context(), func(ctx context.Context, cfg *app.Config, svc *app.Services, logger *slog.Logger) error {
				params := app.RouterParamsFor(svc, cfg, logger)
				var inspector *asynq.Inspector
				if cfg.JobsEnabled {
					inspector = asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
					defer func() {
						if err := inspector.Close(); err != nil {
							logger.Warn("inspector close", slog.Any("error", err))
						}
					}()
				}
				params.JobHandler = jobs.NewHandler(inspector, logger)
				return serve(ctx, cfg, app.NewRouter(params), logger)
			})
		},
	}
}

func serve(ctx context.Context, cfg *app.Config, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      handler,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
