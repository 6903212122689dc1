// Package engine holds the filter and the aggregation recipes of the
// dashboard. Every function is pure: it reads a slice of records and returns
// freshly allocated summary rows, and it is safe on an empty slice.
package engine

import (
	"superstore-dashboard/internal/models"
)

// Apply returns the records whose year, region and category are all selected.
// Dimensions are AND-combined; values within a dimension are OR-combined. An
// empty dimension in sel matches nothing. The input slice is not modified.
func Apply(records []models.Record, sel models.Selection) []models.Record {
	years := toSet(sel.Years)
	regions := toSet(sel.Regions)
	categories := toSet(sel.Categories)

	out := make([]models.Record, 0, len(records))
	if len(years) == 0 || len(regions) == 0 || len(categories) == 0 {
		return out
	}

	for _, r := range records {
		if _, ok := years[r.Year]; !ok {
			continue
		}
		if _, ok := regions[r.Region]; !ok {
			continue
		}
		if _, ok := categories[r.Category]; !ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DefaultSelection selects every available value.
func DefaultSelection(opts models.Options) models.Selection {
	return models.Selection{
		Years:      append([]int(nil), opts.Years...),
		Regions:    append([]string(nil), opts.Regions...),
		Categories: append([]string(nil), opts.Categories...),
	}
}

func toSet[T comparable](items []T) map[T]struct{} {
	set := make(map[T]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
