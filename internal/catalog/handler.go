package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paintstock/paintstock/internal/platform/httpx"
	"github.com/paintstock/paintstock/internal/shared"
	"github.com/paintstock/paintstock/internal/tabular"
)

const maxImportBytes = 10 << 20

// Handler wires HTTP endpoints for the catalog.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the catalog handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleSaveEntry)
		r.Post("/import", h.handleImport)
		r.Get("/export", h.handleExport)
		r.Get("/stats", h.handleStats)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
	r.Get("/low-stock", h.handleLowStock)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, "list products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), shared.ID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

type saveEntryResponse struct {
	Product Product `json:"product"`
	Created bool    `json:"created"`
}

func (h *Handler) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	var form ProductForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		h.fail(w, "decode product form", err)
		return
	}
	product, created, err := h.service.SaveEntry(r.Context(), form)
	if err != nil {
		h.fail(w, "save product", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.logger.Info("product saved", slog.String("code", product.Code), slog.Bool("created", created))
	httpx.JSON(w, status, saveEntryResponse{Product: product, Created: created})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var edit ProductEdit
	if err := httpx.DecodeJSON(r, &edit); err != nil {
		h.fail(w, "decode product edit", err)
		return
	}
	product, err := h.service.Update(r.Context(), shared.ID(chi.URLParam(r, "id")), edit)
	if err != nil {
		h.fail(w, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), shared.ID(chi.URLParam(r, "id"))); err != nil {
		h.fail(w, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Report
	Message string `json:"message"`
}

// handleImport accepts a CSV body, a multipart upload in field "file", or a
// JSON array of row objects.
func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		report Report
		err    error
	)
	switch mediaType {
	case "application/json":
		var rows []tabular.Row
		rows, err = decodeRows(r.Body)
		if err == nil {
			report, err = h.service.ImportRows(r.Context(), rows)
		}
	case "multipart/form-data":
		var file io.ReadCloser
		file, _, err = r.FormFile("file")
		if err != nil {
			err = fmt.Errorf("%w: missing upload field file", shared.ErrValidation)
			break
		}
		defer file.Close()
		report, err = h.service.Import(r.Context(), file)
	default:
		report, err = h.service.Import(r.Context(), r.Body)
	}
	if err != nil {
		h.fail(w, "import products", err)
		return
	}
	h.logger.Info("products imported",
		slog.Int("imported", report.Imported),
		slog.Int("updated", report.Updated),
		slog.Int("skipped", report.SkippedMissingCodeOrName))
	httpx.JSON(w, http.StatusOK, importResponse{Report: report, Message: report.Describe()})
}

func decodeRows(r io.Reader) ([]tabular.Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode rows: %v", shared.ErrValidation, err)
	}
	rows := make([]tabular.Row, 0, len(raw))
	for _, m := range raw {
		row, err := tabular.RowFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, "export products", err)
		return
	}
	httpx.Attachment(w, "text/csv; charset=utf-8", "inventory.csv")
	if err := WriteInventoryCSV(w, products); err != nil {
		h.logger.Error("write inventory csv", slog.Any("error", err))
	}
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.fail(w, "catalog stats", err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) handleLowStock(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.LowStock(r.Context())
	if err != nil {
		h.fail(w, "low stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	httpx.Fail(w, h.logger, op, err)
}
