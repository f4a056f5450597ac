package sales

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/paintstock/paintstock/internal/platform/httpx"
)

// Handler wires HTTP endpoints for checkout, history and customers.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the sales handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleComplete)
		r.Get("/products", h.handleSellable)
		r.Get("/history", h.handleHistory)
		r.Get("/export", h.handleExport)
	})
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.handleCustomers)
		r.Get("/{mobile}", h.handleCustomer)
	})
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var in CompleteSaleInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, h.logger, "decode sale", err)
		return
	}
	sale, err := h.service.Complete(r.Context(), in)
	if err != nil {
		httpx.Fail(w, h.logger, "complete sale", err)
		return
	}
	h.logger.Info("sale completed",
		slog.String("sale_id", sale.ID.String()),
		slog.Int("lines", len(sale.Products)),
		slog.Float64("total", sale.TotalPrice))
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.Sales(r.Context())
	if err != nil {
		httpx.Fail(w, h.logger, "list sales", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sales)
}

func (h *Handler) handleSellable(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Sellable(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.Fail(w, h.logger, "sellable products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	result, err := h.service.HistoryPage(r.Context(), q.Get("q"), page, perPage)
	if err != nil {
		httpx.Fail(w, h.logger, "sales history", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.History(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.Fail(w, h.logger, "export sales", err)
		return
	}
	httpx.Attachment(w, "text/csv; charset=utf-8", "sales_data.csv")
	if err := WriteHistoryCSV(w, lines, h.service.dateLayout); err != nil {
		h.logger.Error("write sales csv", slog.Any("error", err))
	}
}

func (h *Handler) handleCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.Customers(r.Context())
	if err != nil {
		httpx.Fail(w, h.logger, "list customers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customers)
}

func (h *Handler) handleCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.service.Customer(r.Context(), chi.URLParam(r, "mobile"))
	if err != nil {
		httpx.Fail(w, h.logger, "get customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}
