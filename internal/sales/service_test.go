package sales

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/storage"
)

type memoryRecorder struct{ sales []Sale }

func (r *memoryRecorder) RecordSale(sale Sale) { r.sales = append(r.sales, sale) }

type countingNotifier struct{ calls int }

func (n *countingNotifier) SalesChanged(context.Context) { n.calls++ }

// failingStore lets reads through and fails the write of one collection, so
// a partially applied sale would be visible.
type failingStore struct {
	storage.Store
	failOn storage.Collection
}

func (f *failingStore) WithTx(ctx context.Context, fn func(context.Context, storage.Tx) error) error {
	return f.Store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return fn(ctx, &failingTx{Tx: tx, failOn: f.failOn})
	})
}

type failingTx struct {
	storage.Tx
	failOn storage.Collection
}

var errDiskFull = errors.New("disk full")

func (f *failingTx) SaveCollection(ctx context.Context, name storage.Collection, data []byte) error {
	if name == f.failOn {
		return errDiskFull
	}
	return f.Tx.SaveCollection(ctx, name, data)
}

func seedStore(t *testing.T) storage.Store {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, catalog.SaveProducts(context.Background(), store, baseState().Products))
	return store
}

func TestServiceComplete(t *testing.T) {
	store := seedStore(t)
	recorder := &memoryRecorder{}
	notifier := &countingNotifier{}
	opts := fixedOptions()
	svc := NewService(store, ServiceConfig{NewID: opts.NewID, Now: opts.Now, Recorder: recorder, Notifier: notifier})
	ctx := context.Background()

	sale, err := svc.Complete(ctx, CompleteSaleInput{
		CustomerName: "Asha", CustomerMobile: "55",
		ColorCodes: []string{"RAL 9010", "Ivory"},
		Items:      []ItemInput{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Len(t, recorder.sales, 1)
	assert.Equal(t, 1, notifier.calls)

	products, err := catalog.LoadProducts(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 3, products[0].QuantityUnits)

	customer, err := svc.Customer(ctx, "55")
	require.NoError(t, err)
	assert.Equal(t, sale.ID, customer.Purchases[0].SaleID)

	_, err = svc.Customer(ctx, "66")
	require.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = svc.Complete(ctx, CompleteSaleInput{
		CustomerName: "Asha", CustomerMobile: "55",
		Items: []ItemInput{{ProductID: "p1", Quantity: 4}},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Len(t, recorder.sales, 1)

	sales, err := svc.Sales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestServiceCompleteIsAtomic(t *testing.T) {
	for _, failOn := range []storage.Collection{storage.Products, storage.Sales, storage.Customers} {
		t.Run(string(failOn), func(t *testing.T) {
			base := seedStore(t)
			svc := NewService(&failingStore{Store: base, failOn: failOn}, ServiceConfig{})
			ctx := context.Background()

			_, err := svc.Complete(ctx, CompleteSaleInput{
				CustomerName: "Asha", CustomerMobile: "55",
				Items: []ItemInput{{ProductID: "p1", Quantity: 1}},
			})
			require.ErrorIs(t, err, errDiskFull)

			products, err := catalog.LoadProducts(ctx, base)
			require.NoError(t, err)
			assert.Equal(t, 5, products[0].QuantityUnits)
			sales, err := LoadSales(ctx, base)
			require.NoError(t, err)
			assert.Empty(t, sales)
			customers, err := LoadCustomers(ctx, base)
			require.NoError(t, err)
			assert.Empty(t, customers)
		})
	}
}

func TestServiceHistoryAndExport(t *testing.T) {
	store := seedStore(t)
	opts := fixedOptions()
	svc := NewService(store, ServiceConfig{NewID: opts.NewID, Now: opts.Now, DateLayout: "02/01/2006"})
	ctx := context.Background()

	_, err := svc.Complete(ctx, CompleteSaleInput{
		CustomerName: "Asha", CustomerMobile: "55",
		ColorCodes: []string{"RAL 9010", "Ivory"},
		Items:      []ItemInput{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = svc.Complete(ctx, CompleteSaleInput{
		CustomerName: "Ravi", CustomerMobile: "77",
		Items: []ItemInput{{ProductID: "p2", Quantity: 1}},
	})
	require.NoError(t, err)

	lines, err := svc.History(ctx, "")
	require.NoError(t, err)
	require.Len(t, lines, 3)

	lines, err = svc.History(ctx, "gloss")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	lines, err = svc.History(ctx, "77")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Ravi", lines[0].CustomerName)

	page, err := svc.HistoryPage(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Lines, 1)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportHistory(ctx, &buf, "asha"))
	assert.Equal(t,
		"Customer Name,Mobile Number,Sale Date,Product Name,Product Code,Colour Base,Company,Qty (L),Qty Purchased,Color Codes,Price\n"+
			"Asha,55,06/05/2024,Primer,P1,White,Acme,1,2,\"RAL 9010, Ivory\",100\n"+
			"Asha,55,06/05/2024,Gloss,P2,,,0,1,\"RAL 9010, Ivory\",80\n",
		buf.String())

	customers, err := svc.Customers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "Asha", customers[0].Name)
	assert.InDelta(t, 280, customers[0].TotalSpent, 1e-9)
	assert.Equal(t, 1, customers[1].PurchaseCount)
	assert.InDelta(t, 80, customers[1].TotalSpent, 1e-9)

	sellable, err := svc.Sellable(ctx, "")
	require.NoError(t, err)
	require.Len(t, sellable, 1)
	assert.Equal(t, "P1", sellable[0].Code)
}
