package sales

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintstock/paintstock/internal/platform/httpx"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := NewService(seedStore(t), ServiceConfig{})
	r := chi.NewRouter()
	NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).MountRoutes(r)
	return r
}

func TestHandlerCompleteSale(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(
		`{"customerName":"Asha","customerMobile":"55","items":[{"productId":"p1","quantity":2}]}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var sale Sale
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sale))
	assert.InDelta(t, 200, sale.TotalPrice, 1e-9)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(
		`{"customerName":"Asha","customerMobile":"55","items":[{"productId":"p2","quantity":9}]}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var problem httpx.ProblemDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&problem))
	assert.Contains(t, problem.Detail, "only 2 units available")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(
		`{"customerName":"Asha","customerMobile":"55","items":[]}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(
		`{"customerName":"Asha","customerMobile":"55","items":[{"productId":"nope","quantity":1}]}`)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerHistoryAndCustomers(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(
		`{"customerName":"Asha","customerMobile":"55","colorCodes":["RAL 9010"],"items":[{"productId":"p1","quantity":1},{"productId":"p2","quantity":1}]}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/history?per_page=1&page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var page HistoryPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	require.Len(t, page.Lines, 1)
	assert.Equal(t, "P2", page.Lines[0].ProductCode)
	assert.Equal(t, 2, page.Pagination.Total)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/history?per_page=4&page=4611686018427387904", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	page = HistoryPage{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Empty(t, page.Lines)
	assert.Equal(t, 2, page.Pagination.Total)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sales_data.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), strings.Join(HistoryHeader, ",")+"\n"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/55", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/products?q=prim", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var products []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	require.Len(t, products, 1)
}
