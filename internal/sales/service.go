package sales

import (
	"context"
	"io"
	"time"

	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/shared"
	"github.com/paintstock/paintstock/internal/storage"
)

// ChangeNotifier is told after a sale commits.
type ChangeNotifier interface {
	SalesChanged(ctx context.Context)
}

// SaleRecorder observes completed sales.
type SaleRecorder interface {
	RecordSale(sale Sale)
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	NewID      func() shared.ID
	Now        func() time.Time
	DateLayout string
	Notifier   ChangeNotifier
	Recorder   SaleRecorder
}

// Service coordinates checkout and the sales log.
type Service struct {
	store      storage.Store
	opts       Options
	dateLayout string
	notifier   ChangeNotifier
	recorder   SaleRecorder
}

// NewService builds Service.
func NewService(store storage.Store, cfg ServiceConfig) *Service {
	return &Service{
		store:      store,
		opts:       Options{NewID: cfg.NewID, Now: cfg.Now},
		dateLayout: cfg.DateLayout,
		notifier:   cfg.Notifier,
		recorder:   cfg.Recorder,
	}
}

// Complete records a sale. Products, sales and customers commit together or
// not at all.
func (s *Service) Complete(ctx context.Context, in CompleteSaleInput) (Sale, error) {
	var sale Sale
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		state, err := loadState(ctx, tx)
		if err != nil {
			return err
		}
		next, completed, err := CompleteSale(state, in, s.opts)
		if err != nil {
			return err
		}
		sale = completed
		return saveState(ctx, tx, next)
	})
	if err != nil {
		return Sale{}, err
	}
	if s.recorder != nil {
		s.recorder.RecordSale(sale)
	}
	if s.notifier != nil {
		s.notifier.SalesChanged(ctx)
	}
	return sale, nil
}

// Sellable lists in-stock products matching term.
func (s *Service) Sellable(ctx context.Context, term string) ([]catalog.Product, error) {
	products, err := catalog.LoadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return SellableProducts(products, term), nil
}

// Sales returns the raw sales log.
func (s *Service) Sales(ctx context.Context) ([]Sale, error) {
	return LoadSales(ctx, s.store)
}

// History returns the flattened, filtered sales history.
func (s *Service) History(ctx context.Context, term string) ([]HistoryLine, error) {
	sales, err := LoadSales(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return FilterHistory(Flatten(sales), term), nil
}

// HistoryPage returns one page of History.
func (s *Service) HistoryPage(ctx context.Context, term string, page, perPage int) (HistoryPage, error) {
	lines, err := s.History(ctx, term)
	if err != nil {
		return HistoryPage{}, err
	}
	p := shared.NewPagination(page, perPage, len(lines))
	start, end := p.Bounds()
	return HistoryPage{Lines: lines[start:end], Pagination: p}, nil
}

// Customers lists customers with their purchase totals.
func (s *Service) Customers(ctx context.Context) ([]CustomerSummary, error) {
	customers, err := LoadCustomers(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return Summarise(customers), nil
}

// Customer returns one customer by mobile number.
func (s *Service) Customer(ctx context.Context, mobile string) (Customer, error) {
	customers, err := LoadCustomers(ctx, s.store)
	if err != nil {
		return Customer{}, err
	}
	for _, c := range customers {
		if c.Mobile == mobile {
			return c, nil
		}
	}
	return Customer{}, ErrCustomerNotFound
}

// ExportHistory writes the filtered history as CSV.
func (s *Service) ExportHistory(ctx context.Context, w io.Writer, term string) error {
	lines, err := s.History(ctx, term)
	if err != nil {
		return err
	}
	return WriteHistoryCSV(w, lines, s.dateLayout)
}
