package engine

import (
	"slices"

	"superstore-dashboard/internal/models"
)

// YearlyGrowth reports the percent change of yearly sales against the previous
// year present in the view. The first year has growth 0.
func YearlyGrowth(records []models.Record) []models.YearGrowth {
	totals := make(map[int]float64)
	for _, r := range records {
		totals[r.Year] += r.Sales
	}

	out := make([]models.YearGrowth, 0, len(totals))
	for i, year := range sortedKeys(totals) {
		row := models.YearGrowth{Year: year, Sales: totals[year]}
		if i > 0 {
			row.Growth = pctChange(out[i-1].Sales, row.Sales)
		}
		out = append(out, row)
	}
	return out
}

// MonthlyYoY reports, for every (year, month), the percent change of sales
// against the same month one year earlier. Months without a prior-year
// counterpart are dropped.
func MonthlyYoY(records []models.Record) []models.MonthGrowth {
	type key struct{ year, month int }
	totals := make(map[key]float64)
	for _, r := range records {
		totals[key{r.Year, r.Month}] += r.Sales
	}

	keys := make([]key, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		if a.year != b.year {
			return a.year - b.year
		}
		return a.month - b.month
	})

	out := make([]models.MonthGrowth, 0, len(keys))
	for _, k := range keys {
		prior, ok := totals[key{k.year - 1, k.month}]
		if !ok {
			continue
		}
		cur := totals[k]
		out = append(out, models.MonthGrowth{
			Year:   k.year,
			Month:  k.month,
			Sales:  cur,
			Prior:  prior,
			Growth: pctChange(prior, cur),
		})
	}
	return out
}
