package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paintstock/paintstock/internal/platform/httpx"
	"github.com/paintstock/paintstock/internal/shared"
)

const maxRestoreBody = 32 << 20

// Handler wires settings endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the settings handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

type thresholdBody struct {
	Threshold *int `json:"lowStockThreshold" validate:"required"`
}

type clearRequest struct {
	Confirm bool `json:"confirm" validate:"required"`
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/threshold", h.handleGetThreshold)
		r.Put("/threshold", h.handlePutThreshold)
		r.Get("/backup", h.handleBackup)
		r.Post("/restore", h.handleRestore)
		r.Post("/clear", h.handleClear)
	})
}

func (h *Handler) handleGetThreshold(w http.ResponseWriter, r *http.Request) {
	threshold, err := h.service.Threshold(r.Context())
	if err != nil {
		httpx.Fail(w, h.logger, "get threshold", err)
		return
	}
	httpx.JSON(w, http.StatusOK, thresholdBody{Threshold: &threshold})
}

func (h *Handler) handlePutThreshold(w http.ResponseWriter, r *http.Request) {
	var body thresholdBody
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SetThreshold(r.Context(), *body.Threshold); err != nil {
		httpx.Fail(w, h.logger, "set threshold", err)
		return
	}
	httpx.JSON(w, http.StatusOK, body)
}

func (h *Handler) handleBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.service.Backup(r.Context())
	if err != nil {
		httpx.Fail(w, h.logger, "backup", err)
		return
	}
	httpx.Attachment(w, "application/json", "paintstock_backup.json")
	if err := json.NewEncoder(w).Encode(backup); err != nil {
		h.logger.Error("write backup", slog.Any("error", err))
	}
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	var backup Backup
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRestoreBody)).Decode(&backup); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.RespondError(w, err)
			return
		}
		httpx.RespondError(w, fmt.Errorf("%w: decode backup: %v", shared.ErrValidation, err))
		return
	}
	if err := h.service.Restore(r.Context(), backup); err != nil {
		httpx.Fail(w, h.logger, "restore", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.ClearData(r.Context()); err != nil {
		httpx.Fail(w, h.logger, "clear data", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
