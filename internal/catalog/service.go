package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/paintstock/paintstock/internal/shared"
	"github.com/paintstock/paintstock/internal/storage"
	"github.com/paintstock/paintstock/internal/tabular"
)

// ChangeNotifier is told after every committed catalog write.
type ChangeNotifier interface {
	CatalogChanged(ctx context.Context)
}

// ImportRecorder observes import outcomes.
type ImportRecorder interface {
	RecordImport(source string, report Report)
}

// Import sources reported to the ImportRecorder.
const (
	SourceCSV    = "csv"
	SourceRows   = "rows"
	SourceManual = "manual"
)

// ServiceConfig groups optional collaborators.
type ServiceConfig struct {
	NewID    func() shared.ID
	Now      func() time.Time
	Notifier ChangeNotifier
	Recorder ImportRecorder
}

// Service coordinates catalog operations over the storage port.
type Service struct {
	store    storage.Store
	newID    func() shared.ID
	now      func() time.Time
	notifier ChangeNotifier
	recorder ImportRecorder
}

// NewService builds Service.
func NewService(store storage.Store, cfg ServiceConfig) *Service {
	return &Service{store: store, newID: cfg.NewID, now: cfg.Now, notifier: cfg.Notifier, recorder: cfg.Recorder}
}

func (s *Service) options(policy LitersPolicy) Options {
	return Options{Liters: policy, NewID: s.newID, Now: s.now}
}

func (s *Service) changed(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.CatalogChanged(ctx)
	}
}

func (s *Service) record(source string, report Report) {
	if s.recorder != nil {
		s.recorder.RecordImport(source, report)
	}
}

// List returns every product in stored order.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return LoadProducts(ctx, s.store)
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id shared.ID) (Product, error) {
	products, err := LoadProducts(ctx, s.store)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

// Search filters by a case-insensitive substring of name, code, company or
// colour base. An empty term returns everything.
func (s *Service) Search(ctx context.Context, term string) ([]Product, error) {
	products, err := LoadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return Filter(products, term), nil
}

// Filter applies the inventory search to products.
func Filter(products []Product, term string) []Product {
	term = strings.TrimSpace(term)
	if term == "" {
		return products
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		for _, field := range []string{p.Name, p.Code, p.Company, p.ColourBase} {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// SaveEntry applies the manual form: new codes create a product, known codes
// add units and fill liters only while they are still zero.
func (s *Service) SaveEntry(ctx context.Context, form ProductForm) (Product, bool, error) {
	var (
		saved   Product
		created bool
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		products, err := LoadProducts(ctx, tx)
		if err != nil {
			return err
		}
		next, p, isNew, err := ApplyEntry(products, form.Row(), s.options(LitersFirstFill))
		if err != nil {
			return err
		}
		saved, created = p, isNew
		return SaveProducts(ctx, tx, next)
	})
	if err != nil {
		return Product{}, false, err
	}
	report := Report{Updated: 1}
	if created {
		report = Report{Imported: 1}
	}
	s.record(SourceManual, report)
	s.changed(ctx)
	return saved, created, nil
}

// Import reads a CSV document and merges it. A document that fails to parse
// changes nothing.
func (s *Service) Import(ctx context.Context, r io.Reader) (Report, error) {
	rows, err := tabular.ReadCSV(r)
	if err != nil {
		report := Report{Errors: 1}
		s.record(SourceCSV, report)
		return report, err
	}
	return s.importRows(ctx, SourceCSV, rows)
}

// ImportRows merges already decoded rows.
func (s *Service) ImportRows(ctx context.Context, rows []tabular.Row) (Report, error) {
	return s.importRows(ctx, SourceRows, rows)
}

func (s *Service) importRows(ctx context.Context, source string, rows []tabular.Row) (Report, error) {
	if len(rows) == 0 {
		return Report{}, ErrEmptyImport
	}
	var report Report
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		products, err := LoadProducts(ctx, tx)
		if err != nil {
			return err
		}
		next, r, err := Reconcile(products, rows, s.options(LitersUnchangedOnUpdate))
		if err != nil {
			return err
		}
		report = r
		return SaveProducts(ctx, tx, next)
	})
	if err != nil {
		return Report{}, err
	}
	s.record(source, report)
	if report.Imported+report.Updated > 0 {
		s.changed(ctx)
	}
	return report, nil
}

// Update overwrites the editable fields of a product.
func (s *Service) Update(ctx context.Context, id shared.ID, edit ProductEdit) (Product, error) {
	edit = edit.trimmed()
	if edit.Code == "" || edit.Name == "" {
		return Product{}, ErrMissingCodeOrName
	}
	var updated Product
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		products, err := LoadProducts(ctx, tx)
		if err != nil {
			return err
		}
		idx := -1
		for i, p := range products {
			if p.ID == id {
				idx = i
				continue
			}
			if p.Code == edit.Code {
				return duplicateCode(edit.Code)
			}
		}
		if idx < 0 {
			return ErrProductNotFound
		}
		p := &products[idx]
		p.Code = edit.Code
		p.Name = edit.Name
		p.ColourBase = edit.ColourBase
		p.Company = edit.Company
		p.QuantityLiters = edit.QuantityLiters
		p.QuantityUnits = edit.QuantityUnits
		p.Price = edit.Price
		updated = *p
		return SaveProducts(ctx, tx, products)
	})
	if err != nil {
		return Product{}, err
	}
	s.changed(ctx)
	return updated, nil
}

// Delete removes a product. Past sales keep their snapshot.
func (s *Service) Delete(ctx context.Context, id shared.ID) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		products, err := LoadProducts(ctx, tx)
		if err != nil {
			return err
		}
		kept := products[:0]
		for _, p := range products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(products) {
			return ErrProductNotFound
		}
		return SaveProducts(ctx, tx, kept)
	})
	if err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

// Stats summarises the catalog.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		products, err := LoadProducts(ctx, tx)
		if err != nil {
			return err
		}
		threshold, err := LoadThreshold(ctx, tx)
		if err != nil {
			return err
		}
		stats = ComputeStats(products, threshold)
		return nil
	})
	return stats, err
}

// LowStock lists products at or below the stored threshold.
func (s *Service) LowStock(ctx context.Context) (LowStockReport, error) {
	var report LowStockReport
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		products, err := LoadProducts(ctx, tx)
		if err != nil {
			return err
		}
		threshold, err := LoadThreshold(ctx, tx)
		if err != nil {
			return err
		}
		report = ClassifyLowStock(products, threshold)
		return nil
	})
	return report, err
}

// Threshold returns the stored low-stock threshold.
func (s *Service) Threshold(ctx context.Context) (int, error) {
	return LoadThreshold(ctx, s.store)
}

// SetThreshold stores a new low-stock threshold.
func (s *Service) SetThreshold(ctx context.Context, threshold int) error {
	if threshold < 0 {
		return ErrInvalidThreshold
	}
	if err := storage.Save(ctx, s.store, storage.LowStockThreshold, threshold); err != nil {
		return fmt.Errorf("catalog: save threshold: %w", err)
	}
	s.changed(ctx)
	return nil
}

// Export writes the products matching term as inventory CSV.
func (s *Service) Export(ctx context.Context, w io.Writer, term string) error {
	products, err := s.Search(ctx, term)
	if err != nil {
		return err
	}
	return WriteInventoryCSV(w, products)
}
