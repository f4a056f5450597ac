package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/sales"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	require.Contains(t, body, `paintstock_http_requests_total{code="418",route="/test"} 1`)
	require.Contains(t, body, `paintstock_http_request_duration_seconds_bucket{route="/test"`)
}

func TestRecordImportAndSale(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordImport(catalog.SourceCSV, catalog.Report{Imported: 2, Updated: 1, SkippedMissingCodeOrName: 3})
	metrics.RecordImport(catalog.SourceCSV, catalog.Report{Imported: 1})
	metrics.RecordSale(sales.Sale{TotalPrice: 250.5, Products: []sales.LineItem{{}, {}}})

	body := scrape(t, metrics)
	require.Contains(t, body, `paintstock_import_rows_total{outcome="imported",source="csv"} 3`)
	require.Contains(t, body, `paintstock_import_rows_total{outcome="updated",source="csv"} 1`)
	require.Contains(t, body, `paintstock_import_rows_total{outcome="skipped",source="csv"} 3`)
	require.False(t, strings.Contains(body, `outcome="error"`))
	require.Contains(t, body, "paintstock_sales_total 1")
	require.Contains(t, body, "paintstock_sales_revenue_total 250.5")
	require.Contains(t, body, "paintstock_sale_line_items_count 1")
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.RecordSale(sales.Sale{})
	metrics.RecordImport(catalog.SourceRows, catalog.Report{Imported: 1})

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
