package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	apperrors "superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/models"
)

// selectionSignals mirrors the filter signals of the dashboard page. Years
// arrive as strings because they are bound to checkbox values.
type selectionSignals struct {
	Years      []string `json:"years"`
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}

// parseSelection reads the filter from datastar signals when the request
// carries them, otherwise from repeated year/region/category query keys.
//
// A dimension that is absent selects every available value. A dimension that
// is present but holds only empty values selects nothing.
func parseSelection(r *http.Request, opts models.Options) (models.Selection, error) {
	var s selectionSignals
	q := r.URL.Query()

	if q.Has("datastar") {
		if err := datastar.ReadSignals(r, &s); err != nil {
			return models.Selection{}, apperrors.InvalidSelection(err, "unreadable datastar signals")
		}
	} else {
		s = selectionSignals{
			Years:      queryValues(q, "year"),
			Regions:    queryValues(q, "region"),
			Categories: queryValues(q, "category"),
		}
	}

	years := make([]string, len(opts.Years))
	for i, y := range opts.Years {
		years[i] = strconv.Itoa(y)
	}

	sel := models.Selection{
		Regions:    pick(s.Regions, opts.Regions),
		Categories: pick(s.Categories, opts.Categories),
	}
	for _, v := range pick(s.Years, years) {
		y, err := strconv.Atoi(v)
		if err != nil {
			return models.Selection{}, apperrors.InvalidSelection(err, fmt.Sprintf("year=%s", v))
		}
		sel.Years = append(sel.Years, y)
	}
	if sel.Years == nil {
		sel.Years = []int{}
	}
	return sel, nil
}

// queryValues returns nil when key is absent and a non-nil slice otherwise.
func queryValues(q map[string][]string, key string) []string {
	values, ok := q[key]
	if !ok {
		return nil
	}
	return append([]string{}, values...)
}

func pick(values, all []string) []string {
	if values == nil {
		return append([]string{}, all...)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
