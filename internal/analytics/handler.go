package analytics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/paintstock/paintstock/internal/platform/httpx"
)

const maxTopLimit = 50

// Handler wires analytics endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the analytics handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers analytics routes. Rendered and exported views are
// rate limited per client IP.
func (h *Handler) MountRoutes(r chi.Router) {
	limiter := httprate.Limit(30, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "")
		}),
	)
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/top-products", h.handleTopProducts)
		r.Group(func(gr chi.Router) {
			gr.Use(limiter)
			gr.Get("/top-products.csv", h.handleTopProductsCSV)
			gr.Get("/charts/{kind}.svg", h.handleChart)
		})
	})
}

func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return DefaultTopLimit
	}
	if limit > maxTopLimit {
		return maxTopLimit
	}
	return limit
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		httpx.Fail(w, h.logger, "dashboard", err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) handleTopProducts(w http.ResponseWriter, r *http.Request) {
	top, err := h.service.TopProducts(r.Context(), limitParam(r))
	if err != nil {
		httpx.Fail(w, h.logger, "top products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, top)
}

func (h *Handler) handleTopProductsCSV(w http.ResponseWriter, r *http.Request) {
	top, err := h.service.TopProducts(r.Context(), limitParam(r))
	if err != nil {
		httpx.Fail(w, h.logger, "top products csv", err)
		return
	}
	httpx.Attachment(w, "text/csv; charset=utf-8", "top_products.csv")
	if err := WriteTopProductsCSV(w, top); err != nil {
		h.logger.Error("write top products csv", slog.Any("error", err))
	}
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.RankingChart(r.Context(), chi.URLParam(r, "kind"), limitParam(r))
	if err != nil {
		httpx.Fail(w, h.logger, "ranking chart", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(out))
}
