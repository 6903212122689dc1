package engine

import (
	"slices"
	"time"

	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/models"
)

// RFM segment names, in reporting order.
const (
	SegmentChampions   = "Champions"
	SegmentLoyal       = "Loyal"
	SegmentAtRisk      = "At Risk"
	SegmentRecent      = "Recent"
	SegmentHibernating = "Hibernating"
)

var rfmSegments = []string{SegmentChampions, SegmentLoyal, SegmentAtRisk, SegmentRecent, SegmentHibernating}

// RFM scores every customer of the view. Recency is counted in days back from
// the newest order date in the view. Each measure is scored 1 to 4 by the
// share of customers it beats, so ties share a score. Rows are ordered by
// customer id.
func RFM(records []models.Record) []models.RFMCustomer {
	if len(records) == 0 {
		return []models.RFMCustomer{}
	}

	type acc struct {
		name     string
		last     time.Time
		orders   map[string]struct{}
		monetary float64
	}
	var newest time.Time
	groups := make(map[string]*acc)
	for _, r := range records {
		g := groups[r.CustomerID]
		if g == nil {
			g = &acc{name: r.CustomerName, last: r.OrderDate, orders: make(map[string]struct{})}
			groups[r.CustomerID] = g
		}
		if r.OrderDate.After(g.last) {
			g.last = r.OrderDate
		}
		if r.OrderDate.After(newest) {
			newest = r.OrderDate
		}
		g.orders[r.OrderID] = struct{}{}
		g.monetary += r.Sales
	}

	out := make([]models.RFMCustomer, 0, len(groups))
	for _, id := range sortedKeys(groups) {
		g := groups[id]
		out = append(out, models.RFMCustomer{
			CustomerID:   id,
			CustomerName: g.name,
			Recency:      dataset.ShippingDays(g.last, newest),
			Frequency:    len(g.orders),
			Monetary:     g.monetary,
		})
	}

	recency := make([]int, len(out))
	frequency := make([]int, len(out))
	monetary := make([]float64, len(out))
	for i, c := range out {
		recency[i], frequency[i], monetary[i] = c.Recency, c.Frequency, c.Monetary
	}
	slices.Sort(recency)
	slices.Sort(frequency)
	slices.Sort(monetary)

	n := len(out)
	for i := range out {
		c := &out[i]
		// Fewer days since the last order is better.
		c.RecencyScore = quartileScore(n-upperBound(recency, c.Recency), n)
		c.FrequencyScore = quartileScore(lowerBound(frequency, c.Frequency), n)
		c.MonetaryScore = quartileScore(lowerBound(monetary, c.Monetary), n)
		c.Segment = rfmSegment(c.RecencyScore, c.FrequencyScore, c.MonetaryScore)
	}
	return out
}

// quartileScore maps the number of customers a value beats onto 1..4.
func quartileScore(beaten, n int) int {
	if n == 0 {
		return 1
	}
	return min(1+4*beaten/n, 4)
}

func lowerBound[T int | float64](sorted []T, v T) int {
	i, _ := slices.BinarySearch(sorted, v)
	return i
}

func upperBound[T int | float64](sorted []T, v T) int {
	i, found := slices.BinarySearch(sorted, v)
	for found && i < len(sorted) && sorted[i] == v {
		i++
	}
	return i
}

func rfmSegment(r, f, m int) string {
	switch {
	case r >= 3 && f >= 3 && m >= 3:
		return SegmentChampions
	case r <= 2 && (f >= 3 || m >= 3):
		return SegmentAtRisk
	case f >= 3:
		return SegmentLoyal
	case r >= 3:
		return SegmentRecent
	default:
		return SegmentHibernating
	}
}

// RFMRollup averages recency, frequency and monetary value over all
// customers and per segment, and bins recency and monetary value into
// histograms. Only segments that occur are reported.
func RFMRollup(records []models.Record, bins int) models.RFMSummary {
	customers := RFM(records)
	out := models.RFMSummary{
		Customers: len(customers),
		Segments:  []models.RFMSegment{},
	}

	bySegment := make(map[string]*models.RFMSegment)
	recency := make([]float64, len(customers))
	monetary := make([]float64, len(customers))
	var recencySum, frequencySum, monetarySum float64
	for i, c := range customers {
		recency[i], monetary[i] = float64(c.Recency), c.Monetary
		recencySum += float64(c.Recency)
		frequencySum += float64(c.Frequency)
		monetarySum += c.Monetary

		s := bySegment[c.Segment]
		if s == nil {
			s = &models.RFMSegment{Segment: c.Segment}
			bySegment[c.Segment] = s
		}
		s.Customers++
		s.AvgRecency += float64(c.Recency)
		s.AvgFrequency += float64(c.Frequency)
		s.TotalMonetary += c.Monetary
	}

	n := float64(len(customers))
	out.AvgRecency = safeDiv(recencySum, n)
	out.AvgFrequency = safeDiv(frequencySum, n)
	out.AvgMonetary = safeDiv(monetarySum, n)

	for _, name := range rfmSegments {
		s := bySegment[name]
		if s == nil {
			continue
		}
		count := float64(s.Customers)
		s.AvgRecency = safeDiv(s.AvgRecency, count)
		s.AvgFrequency = safeDiv(s.AvgFrequency, count)
		s.AvgMonetary = safeDiv(s.TotalMonetary, count)
		out.Segments = append(out.Segments, *s)
	}

	out.RecencyHistogram = histogram(recency, bins)
	out.MonetaryHistogram = histogram(monetary, bins)
	return out
}
