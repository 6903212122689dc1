package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
	"superstore-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	analytics *services.Analytics
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, metrics *observability.Metrics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		metrics:   metrics,
		logger:    logger,
	}
}

func renderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// patch renders c and sends it as an element patch. Failures are logged; the
// stream cannot carry a JSON error once it has started.
func (h *SSEHandlers) patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, kind string, c templ.Component) bool {
	html, err := renderString(ctx, c)
	if err != nil {
		h.logger.ErrorContext(ctx, "render sse fragment", "kind", kind, "error", err)
		return false
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.WarnContext(ctx, "send sse fragment", "kind", kind, "error", err)
		return false
	}
	h.metrics.IncSSEEvent(kind)
	return true
}

func (h *SSEHandlers) selection(r *http.Request) (models.Selection, error) {
	opts, err := h.analytics.Options()
	if err != nil {
		return models.Selection{}, err
	}
	return parseSelection(r, opts)
}

func (h *SSEHandlers) overview(ctx context.Context, sse *datastar.ServerSentEventGenerator, sel models.Selection) bool {
	ov, err := h.analytics.Overview(ctx, sel)
	if err != nil {
		h.logger.ErrorContext(ctx, "compute overview", "error", err)
		return false
	}
	if !h.patch(ctx, sse, "kpis", templates.KPICards(ov)) {
		return false
	}

	return h.signals(ctx, sse, "overview", map[string]any{"recordCount": ov.Records})
}

// signals merges values into the page's signal store.
func (h *SSEHandlers) signals(ctx context.Context, sse *datastar.ServerSentEventGenerator, kind string, values map[string]any) bool {
	data, err := json.Marshal(values)
	if err != nil {
		h.logger.ErrorContext(ctx, "marshal sse signals", "kind", kind, "error", err)
		return false
	}
	if err := sse.PatchSignals(data); err != nil {
		h.logger.WarnContext(ctx, "send sse signals", "kind", kind, "error", err)
		return false
	}
	h.metrics.IncSSEEvent("signals")
	return true
}

// reportSignal names the signal holding a tab's report. Datastar keeps
// underscore-prefixed signals out of backend requests, so the reports never
// travel back in the filter query.
func reportSignal(tab services.Tab) string {
	return "_" + string(tab) + "Data"
}

func (h *SSEHandlers) tab(ctx context.Context, sse *datastar.ServerSentEventGenerator, tab services.Tab, sel models.Selection) bool {
	report, err := h.analytics.Tab(ctx, tab, sel)
	if err != nil {
		h.logger.ErrorContext(ctx, "compute tab", "tab", tab, "error", err)
		return false
	}
	if !h.patch(ctx, sse, "tab", templates.TabPanel(tab, report)) {
		return false
	}
	return h.signals(ctx, sse, string(tab), map[string]any{reportSignal(tab): report})
}

// HandleTab streams the KPI header and one tab panel.
func (h *SSEHandlers) HandleTab(w http.ResponseWriter, r *http.Request) {
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

	sse := datastar.NewSSE(w, r)
	ctx := r.Context()
	if h.overview(ctx, sse, sel) {
		h.tab(ctx, sse, tab, sel)
	}
}

// HandleRefreshAll streams the KPI header, every tab panel and the detail
// table for the current selection.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	ctx := r.Context()
	if !h.overview(ctx, sse, sel) {
		return
	}
	for _, tab := range services.Tabs {
		if !h.tab(ctx, sse, tab, sel) {
			return
		}
	}

	rows, err := h.analytics.Detail(ctx, sel)
	if err != nil {
		h.logger.ErrorContext(ctx, "compute detail rows", "error", err)
		return
	}
	h.patch(ctx, sse, "detail", templates.DetailTable(rows))
}
