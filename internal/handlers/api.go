package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apperrors "superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

const (
	version      = "1.0.0"
	exportName   = "superstore_filtered.csv"
	cacheControl = "private, max-age=60"
)

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// writeError maps service errors onto API error codes.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownTab):
		err = apperrors.UnknownTab(r.PathValue("tab"))
	case errors.Is(err, services.ErrDatasetUnavailable):
		err = apperrors.DatasetUnavailable(err)
	}
	apperrors.WriteError(w, r, logger, err)
}

func (h *APIHandlers) selection(r *http.Request) (models.Selection, error) {
	opts, err := h.analytics.Options()
	if err != nil {
		return models.Selection{}, err
	}
	return parseSelection(r, opts)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if _, err := h.analytics.Options(); err != nil {
		status = "degraded"
	}

	apperrors.WriteSuccess(w, map[string]string{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Stats()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	apperrors.WriteSuccess(w, stats)
}

func (h *APIHandlers) HandleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.analytics.Options()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Cache-Control", cacheControl)
	apperrors.WriteSuccess(w, opts)
}

func (h *APIHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	ov, err := h.analytics.Overview(r.Context(), sel)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	apperrors.WriteSuccess(w, ov)
}

func (h *APIHandlers) HandleTab(w http.ResponseWriter, r *http.Request) {
	tab, err := services.ParseTab(r.PathValue("tab"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	sel, err := h.selection(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	report, err := h.analytics.Tab(r.Context(), tab, sel)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	apperrors.WriteSuccess(w, report)
}

func (h *APIHandlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	rows, err := h.analytics.Detail(r.Context(), sel)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	apperrors.WriteSuccess(w, rows)
}

// HandleExport streams the filtered view as a CSV download. The body is
// buffered so a failure can still be reported as a JSON error.
func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := h.analytics.Export(r.Context(), &buf, sel); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportName+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted", "error", err)
	}
}
