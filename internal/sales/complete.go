package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paintstock/paintstock/internal/catalog"
	"github.com/paintstock/paintstock/internal/shared"
)

// State is the slice of persisted data a sale touches.
type State struct {
	Products  []catalog.Product
	Sales     []Sale
	Customers []Customer
}

// Options injects identifiers and the clock.
type Options struct {
	NewID func() shared.ID
	Now   func() time.Time
}

func (o Options) withDefaults() Options {
	if o.NewID == nil {
		o.NewID = func() shared.ID { return shared.ID(uuid.NewString()) }
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// CompleteSale validates the whole cart before touching anything. On success
// it returns a new state with units decremented, the sale appended and the
// customer upserted by mobile. On failure the input state is returned
// unchanged.
func CompleteSale(state State, in CompleteSaleInput, opts Options) (State, Sale, error) {
	opts = opts.withDefaults()

	name := strings.TrimSpace(in.CustomerName)
	mobile := strings.TrimSpace(in.CustomerMobile)
	if len(in.Items) == 0 {
		return state, Sale{}, ErrNoItems
	}
	if name == "" || mobile == "" {
		return state, Sale{}, ErrCustomerRequired
	}

	index := make(map[shared.ID]int, len(state.Products))
	for i, p := range state.Products {
		index[p.ID] = i
	}
	requested := make(map[shared.ID]int, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return state, Sale{}, ErrInvalidQuantity
		}
		if _, ok := index[item.ProductID]; !ok {
			return state, Sale{}, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}
	for _, item := range in.Items {
		p := state.Products[index[item.ProductID]]
		if requested[p.ID] > p.QuantityUnits {
			return state, Sale{}, &InsufficientStockError{
				ProductID:   p.ID,
				ProductCode: p.Code,
				Requested:   requested[p.ID],
				Available:   p.QuantityUnits,
			}
		}
	}

	products := make([]catalog.Product, len(state.Products))
	copy(products, state.Products)

	sale := Sale{
		ID:             opts.NewID(),
		CustomerName:   name,
		CustomerMobile: mobile,
		ColorCodes:     cleanColorCodes(in.ColorCodes),
		Products:       make([]LineItem, 0, len(in.Items)),
		SaleDate:       opts.Now(),
	}
	for _, item := range in.Items {
		p := &products[index[item.ProductID]]
		price := p.Price
		if item.Price != nil {
			price = *item.Price
		}
		p.QuantityUnits -= item.Quantity
		sale.Products = append(sale.Products, LineItem{
			ProductID:      p.ID,
			ProductName:    p.Name,
			ProductCode:    p.Code,
			ColourBase:     p.ColourBase,
			Company:        p.Company,
			QuantityLiters: p.QuantityLiters,
			Price:          price,
			Quantity:       item.Quantity,
		})
		sale.TotalPrice += price * float64(item.Quantity)
	}

	sales := make([]Sale, len(state.Sales), len(state.Sales)+1)
	copy(sales, state.Sales)
	sales = append(sales, sale)

	return State{
		Products:  products,
		Sales:     sales,
		Customers: upsertCustomer(state.Customers, sale, opts),
	}, sale, nil
}

func upsertCustomer(customers []Customer, sale Sale, opts Options) []Customer {
	purchase := Purchase{SaleID: sale.ID, Sale: sale}
	out := make([]Customer, len(customers), len(customers)+1)
	copy(out, customers)
	for i := range out {
		if out[i].Mobile != sale.CustomerMobile {
			continue
		}
		purchases := make([]Purchase, len(out[i].Purchases), len(out[i].Purchases)+1)
		copy(purchases, out[i].Purchases)
		out[i].Purchases = append(purchases, purchase)
		return out
	}
	return append(out, Customer{
		ID:        opts.NewID(),
		Name:      sale.CustomerName,
		Mobile:    sale.CustomerMobile,
		Purchases: []Purchase{purchase},
	})
}

func cleanColorCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if code = strings.TrimSpace(code); code != "" {
			out = append(out, code)
		}
	}
	return out
}
