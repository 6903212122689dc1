package engine

import (
	"cmp"
	"math"
	"slices"

	"superstore-dashboard/internal/models"
)

type discountBand struct {
	label    string
	lo, hi   float64
	closedHi bool
}

// DiscountBands are the fixed discount buckets of the loss analysis:
// [0,.1) [.1,.3) [.3,.5) [.5,1].
var DiscountBands = []discountBand{
	{label: "0–10%", lo: 0, hi: 0.1},
	{label: "10–30%", lo: 0.1, hi: 0.3},
	{label: "30–50%", lo: 0.3, hi: 0.5},
	{label: "50–100%", lo: 0.5, hi: 1, closedHi: true},
}

func (b discountBand) contains(d float64) bool {
	if d < b.lo {
		return false
	}
	if b.closedHi {
		return d <= b.hi
	}
	return d < b.hi
}

// LossSubset returns the records with negative profit.
func LossSubset(records []models.Record) []models.Record {
	out := make([]models.Record, 0)
	for _, r := range records {
		if r.Profit < 0 {
			out = append(out, r)
		}
	}
	return out
}

// Loss counts loss lines, sums their absolute profit and reports the share of
// loss lines as a percentage of all lines.
func Loss(records []models.Record) models.LossSummary {
	var count int
	var total float64
	for _, r := range records {
		if r.Profit < 0 {
			count++
			total += -r.Profit
		}
	}
	return models.LossSummary{
		Records:   len(records),
		LossCount: count,
		TotalLoss: total,
		LossRate:  percent(float64(count), float64(len(records))),
	}
}

// LossBy sums absolute loss per value of dim over loss lines only.
func LossBy(records []models.Record, dim Dimension) []models.DimensionLoss {
	totals := make(map[string]float64)
	for _, r := range records {
		if r.Profit < 0 {
			totals[dim.value(r)] += -r.Profit
		}
	}

	out := make([]models.DimensionLoss, 0, len(totals))
	for _, key := range sortedKeys(totals) {
		out = append(out, models.DimensionLoss{Key: key, Loss: totals[key]})
	}
	return out
}

// LossBySegment reports sum, mean and count of absolute loss per segment.
func LossBySegment(records []models.Record) []models.SegmentLoss {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range records {
		if r.Profit < 0 {
			sums[r.Segment] += -r.Profit
			counts[r.Segment]++
		}
	}

	out := make([]models.SegmentLoss, 0, len(sums))
	for _, seg := range sortedKeys(sums) {
		out = append(out, models.SegmentLoss{
			Segment:   seg,
			TotalLoss: sums[seg],
			MeanLoss:  safeDiv(sums[seg], float64(counts[seg])),
			Count:     counts[seg],
		})
	}
	return out
}

// WorstProducts returns the n products with the lowest summed profit over loss
// lines, reported as absolute loss, worst first.
func WorstProducts(records []models.Record, n int) []models.ProductLoss {
	totals := make(map[string]float64)
	for _, r := range records {
		if r.Profit < 0 {
			totals[r.ProductName] += r.Profit
		}
	}

	names := sortedKeys(totals)
	slices.SortStableFunc(names, func(a, b string) int {
		return cmp.Compare(totals[a], totals[b])
	})

	out := make([]models.ProductLoss, 0, min(len(names), max(n, 0)))
	for _, name := range head(names, n) {
		out = append(out, models.ProductLoss{ProductName: name, Loss: math.Abs(totals[name])})
	}
	return out
}

// DiscountBandLoss buckets loss lines by discount and reports absolute loss,
// line count and sales per bucket. All four buckets are always present.
func DiscountBandLoss(records []models.Record) []models.DiscountBandLoss {
	out := make([]models.DiscountBandLoss, len(DiscountBands))
	for i, b := range DiscountBands {
		out[i].Band = b.label
	}

	for _, r := range records {
		if r.Profit >= 0 {
			continue
		}
		for i, b := range DiscountBands {
			if b.contains(r.Discount) {
				out[i].Loss += -r.Profit
				out[i].Count++
				out[i].Sales += r.Sales
				break
			}
		}
	}
	return out
}
