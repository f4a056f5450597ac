package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paintstock/paintstock/internal/analytics"
	"github.com/paintstock/paintstock/internal/auth"
	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/observability"
	"github.com/paintstock/paintstock/internal/platform/httpx"
	"github.com/paintstock/paintstock/internal/sales"
	"github.com/paintstock/paintstock/internal/settings"
	"github.com/paintstock/paintstock/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	CatalogHandler   *catalog.Handler
	SalesHandler     *sales.Handler
	AnalyticsHandler *analytics.Handler
	AuthHandler      *auth.Handler
	SettingsHandler  *settings.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// RouterParamsFor builds the handlers for svc. The job handler is left for
// the caller because it needs a queue inspector.
func RouterParamsFor(svc *Services, cfg *Config, logger *slog.Logger) RouterParams {
	return RouterParams{
		Logger:           logger,
		Config:           cfg,
		CatalogHandler:   catalog.NewHandler(logger, svc.Catalog),
		SalesHandler:     sales.NewHandler(logger, svc.Sales),
		AnalyticsHandler: analytics.NewHandler(logger, svc.Analytics),
		AuthHandler:      auth.NewHandler(logger, svc.Auth, cfg.LoginRatePerMinute),
		SettingsHandler:  settings.NewHandler(logger, svc.Settings),
		Metrics:          svc.Metrics,
	}
}

// NewRouter constructs the chi.Router with paintstock defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		if params.CatalogHandler != nil {
			params.CatalogHandler.MountRoutes(r)
		}
		if params.SalesHandler != nil {
			params.SalesHandler.MountRoutes(r)
		}
		if params.AnalyticsHandler != nil {
			params.AnalyticsHandler.MountRoutes(r)
		}
		if params.AuthHandler != nil {
			params.AuthHandler.MountRoutes(r)
		}
		if params.SettingsHandler != nil {
			params.SettingsHandler.MountRoutes(r)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no route for "+r.URL.Path)
	})

	return r
}
