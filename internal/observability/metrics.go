package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/sales"
)

// Metrics holds the Prometheus registry and the application collectors.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	importRows      *prometheus.CounterVec
	salesTotal      prometheus.Counter
	salesRevenue    prometheus.Counter
	saleLines       prometheus.Histogram
}

// NewMetrics builds a private registry with the HTTP and shop metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "paintstock_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paintstock_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "paintstock_import_rows_total",
		Help: "Catalog rows processed by source and outcome.",
	}, []string{"source", "outcome"})
	salesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "paintstock_sales_total",
		Help: "Completed sales.",
	})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "paintstock_sales_revenue_total",
		Help: "Sum of completed sale totals.",
	})
	lines := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "paintstock_sale_line_items",
		Help:    "Line items per completed sale.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})
	registry.MustRegister(requests, duration, importRows, salesTotal, revenue, lines)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		importRows:      importRows,
		salesTotal:      salesTotal,
		salesRevenue:    revenue,
		saleLines:       lines,
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records count and duration for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Registerer exposes the registry so other packages can add collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// RecordImport counts the rows of one catalog import by outcome.
func (m *Metrics) RecordImport(source string, report catalog.Report) {
	if m == nil {
		return
	}
	for outcome, n := range map[string]int{
		"imported": report.Imported,
		"updated":  report.Updated,
		"skipped":  report.SkippedMissingCodeOrName,
		"error":    report.Errors,
	} {
		if n > 0 {
			m.importRows.WithLabelValues(source, outcome).Add(float64(n))
		}
	}
}

// RecordSale counts a completed sale and its revenue.
func (m *Metrics) RecordSale(sale sales.Sale) {
	if m == nil {
		return
	}
	m.salesTotal.Inc()
	m.salesRevenue.Add(sale.TotalPrice)
	m.saleLines.Observe(float64(len(sale.Products)))
}

var (
	_ catalog.ImportRecorder = (*Metrics)(nil)
	_ sales.SaleRecorder     = (*Metrics)(nil)
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
