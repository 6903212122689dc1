package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/models"
)

// ShipModes rolls sales, profit, shipping days and line count up per ship
// mode, with the resulting profit margin.
func ShipModes(records []models.Record) []models.ShipModeSummary {
	type acc struct {
		sales, profit float64
		days, count   int
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		g := groups[r.ShipMode]
		if g == nil {
			g = &acc{}
			groups[r.ShipMode] = g
		}
		g.sales += r.Sales
		g.profit += r.Profit
		g.days += r.ShippingDays
		g.count++
	}

	out := make([]models.ShipModeSummary, 0, len(groups))
	for _, mode := range sortedKeys(groups) {
		g := groups[mode]
		out = append(out, models.ShipModeSummary{
			ShipMode:        mode,
			Sales:           g.sales,
			Profit:          g.profit,
			AvgShippingDays: safeDiv(float64(g.days), float64(g.count)),
			Count:           g.count,
			ProfitMargin:    percent(g.profit, g.sales),
		})
	}
	return out
}

// MarginHistogram distributes per-line profit margins into equal-width bins
// spanning the observed range.
func MarginHistogram(records []models.Record, bins int) []models.HistogramBin {
	margins := make([]float64, len(records))
	for i, r := range records {
		margins[i] = r.ProfitMargin
	}
	return histogram(margins, bins)
}

// histogram bins values into equal-width bins over their observed range. The
// last bin is closed on the right. A single distinct value is centred in a
// unit-wide range.
func histogram(values []float64, bins int) []models.HistogramBin {
	if len(values) == 0 || bins <= 0 {
		return []models.HistogramBin{}
	}

	lo, hi := slices.Min(values), slices.Max(values)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(bins)
	out := make([]models.HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		idx = min(max(idx, 0), bins-1)
		out[idx].Count++
	}
	return out
}

// QuarterTrend sums sales per (year, quarter) in chronological order.
func QuarterTrend(records []models.Record) []models.QuarterSales {
	type key struct{ year, quarter int }
	totals := make(map[key]float64)
	for _, r := range records {
		totals[key{r.Year, r.Quarter}] += r.Sales
	}

	keys := make([]key, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		if a.year != b.year {
			return a.year - b.year
		}
		return a.quarter - b.quarter
	})

	out := make([]models.QuarterSales, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.QuarterSales{
			Year:    k.year,
			Quarter: k.quarter,
			Label:   fmt.Sprintf("%d-Q%d", k.year, k.quarter),
			Sales:   totals[k],
		})
	}
	return out
}

// WeekdayPattern reports mean sales per weekday, Monday first. Days without
// records report 0.
func WeekdayPattern(records []models.Record) []models.WeekdaySales {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		sums[r.Weekday] += r.Sales
		counts[r.Weekday]++
	}

	out := make([]models.WeekdaySales, 0, len(dataset.Weekdays))
	for _, day := range dataset.Weekdays {
		out = append(out, models.WeekdaySales{
			Weekday:  day,
			AvgSales: safeDiv(sums[day], float64(counts[day])),
		})
	}
	return out
}

// DiscountSample picks at most n records at random, without replacement, for
// the discount/sales scatter. The picked points keep their original order.
func DiscountSample(records []models.Record, n int, rng *rand.Rand) []models.DiscountPoint {
	n = min(max(n, 0), len(records))
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	if n < len(records) {
		for i := 0; i < n; i++ {
			j := i + rng.IntN(len(idx)-i)
			idx[i], idx[j] = idx[j], idx[i]
		}
		idx = idx[:n]
		slices.Sort(idx)
	}

	out := make([]models.DiscountPoint, 0, n)
	for _, i := range idx {
		r := records[i]
		out = append(out, models.DiscountPoint{Discount: r.Discount, Sales: r.Sales, Category: r.Category})
	}
	return out
}

// DiscountMarginBands cuts the observed discount range into equal-width,
// right-closed bins and reports the mean profit margin per bin. The lowest
// edge is pushed down by 0.1% of the range so the minimum falls in bin 0.
func DiscountMarginBands(records []models.Record, bins int) []models.MarginBand {
	if len(records) == 0 || bins <= 0 {
		return []models.MarginBand{}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range records {
		lo = math.Min(lo, r.Discount)
		hi = math.Max(hi, r.Discount)
	}

	edges := make([]float64, bins+1)
	if lo == hi {
		adj := 0.001 * math.Abs(lo)
		if adj == 0 {
			adj = 0.001
		}
		lo, hi = lo-adj, hi+adj
		fillEdges(edges, lo, hi)
	} else {
		fillEdges(edges, lo, hi)
		edges[0] -= (hi - lo) * 0.001
	}

	sums := make([]float64, bins)
	counts := make([]int, bins)
	for _, r := range records {
		i := bandIndex(edges, r.Discount)
		sums[i] += r.ProfitMargin
		counts[i]++
	}

	out := make([]models.MarginBand, bins)
	for i := range out {
		out[i] = models.MarginBand{
			Label:     fmt.Sprintf("(%.3g, %.3g]", edges[i], edges[i+1]),
			Lower:     edges[i],
			Upper:     edges[i+1],
			AvgMargin: safeDiv(sums[i], float64(counts[i])),
			Count:     counts[i],
		}
	}
	return out
}

func fillEdges(edges []float64, lo, hi float64) {
	n := len(edges) - 1
	for i := range edges {
		edges[i] = lo + (hi-lo)*float64(i)/float64(n)
	}
	edges[n] = hi
}

func bandIndex(edges []float64, v float64) int {
	last := len(edges) - 2
	for i := 0; i < last; i++ {
		if v <= edges[i+1] {
			return i
		}
	}
	return last
}
