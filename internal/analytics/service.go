package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/paintstock/paintstock/internal/analytics/svg"
	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/sales"
	"github.com/paintstock/paintstock/internal/storage"
)

// Service computes analytics views, caching them when a Cache is present.
type Service struct {
	store  storage.Store
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService wires the storage port with an optional Cache.
func NewService(store storage.Store, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cache: cache, logger: logger}
}

type loadError struct{ err error }

func (e loadError) Error() string { return e.err.Error() }
func (e loadError) Unwrap() error { return e.err }

// fetch serves dest from the cache, computing it through singleflight on a
// miss. Cache failures fall back to computing directly.
func (s *Service) fetch(ctx context.Context, dest any, load func(context.Context) (any, error), parts ...string) error {
	key, err := s.cache.BuildKey(ctx, parts...)
	if err == nil {
		err = s.cache.FetchJSON(ctx, key, dest, func(ctx context.Context) (any, error) {
			v, err := s.build(ctx, key, load)
			if err != nil {
				return nil, loadError{err}
			}
			return v, nil
		})
		var le loadError
		if err == nil || errors.As(err, &le) {
			return err
		}
	}
	s.logger.Warn("analytics cache unavailable", slog.Any("error", err))
	v, err := load(ctx)
	if err != nil {
		return err
	}
	return assign(dest, v)
}

func assign(dest, v any) error {
	switch d := dest.(type) {
	case *Dashboard:
		*d = v.(Dashboard)
	case *TopProducts:
		*d = v.(TopProducts)
	default:
		return fmt.Errorf("analytics: unsupported destination %T", dest)
	}
	return nil
}

// Dashboard returns the landing page totals.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	err := s.fetch(ctx, &d, s.loadDashboard, "dashboard")
	return d, err
}

// TopProducts returns the best sellers by units and by revenue.
func (s *Service) TopProducts(ctx context.Context, limit int) (TopProducts, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	var top TopProducts
	err := s.fetch(ctx, &top, func(ctx context.Context) (any, error) {
		return s.loadTopProducts(ctx, limit)
	}, "top", strconv.Itoa(limit))
	return top, err
}

// Warm precomputes the default views so the next request is a cache hit.
func (s *Service) Warm(ctx context.Context) error {
	if _, err := s.Dashboard(ctx); err != nil {
		return err
	}
	_, err := s.TopProducts(ctx, DefaultTopLimit)
	return err
}

// Chart kinds served by RankingChart.
const (
	ChartTopSelling = "top-selling"
	ChartTopRevenue = "top-revenue"
)

// RankingChart renders one of the product rankings as SVG.
func (s *Service) RankingChart(ctx context.Context, kind string, limit int) (string, error) {
	top, err := s.TopProducts(ctx, limit)
	if err != nil {
		return "", err
	}
	var (
		stats  []ProductStat
		values []float64
		opts   svg.RankOpts
	)
	switch kind {
	case ChartTopSelling:
		stats = top.TopSelling
		opts = svg.RankOpts{Title: "Top Selling Products", Description: "Units sold per product", Unit: "units"}
		for _, st := range stats {
			values = append(values, float64(st.Quantity))
		}
	case ChartTopRevenue:
		stats = top.TopRevenue
		opts = svg.RankOpts{Title: "Top Revenue Products", Description: "Revenue per product", BarColor: "#f97316"}
		for _, st := range stats {
			values = append(values, st.Revenue)
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	labels := make([]string, 0, len(stats))
	for _, st := range stats {
		labels = append(labels, st.Name+" ("+st.Code+")")
	}
	return svg.Ranked(0, values, labels, opts)
}

func (s *Service) loadDashboard(ctx context.Context) (any, error) {
	var d Dashboard
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		products, err := catalog.LoadProducts(ctx, tx)
		if err != nil {
			return err
		}
		threshold, err := catalog.LoadThreshold(ctx, tx)
		if err != nil {
			return err
		}
		customers, err := sales.LoadCustomers(ctx, tx)
		if err != nil {
			return err
		}
		log, err := sales.LoadSales(ctx, tx)
		if err != nil {
			return err
		}
		d = ComputeDashboard(products, customers, log, threshold)
		return nil
	})
	return d, err
}

func (s *Service) loadTopProducts(ctx context.Context, limit int) (any, error) {
	var top TopProducts
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		products, err := catalog.LoadProducts(ctx, tx)
		if err != nil {
			return err
		}
		log, err := sales.LoadSales(ctx, tx)
		if err != nil {
			return err
		}
		top = ComputeTopProducts(products, log, limit)
		return nil
	})
	return top, err
}
