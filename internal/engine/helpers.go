package engine

import (
	"cmp"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"superstore-dashboard/internal/models"
)

// Dimension names a categorical column records can be grouped by.
type Dimension string

const (
	DimRegion   Dimension = "region"
	DimCategory Dimension = "category"
	DimSegment  Dimension = "segment"
	DimMonth    Dimension = "month"
	DimShipMode Dimension = "ship_mode"
)

func (d Dimension) value(r models.Record) string {
	switch d {
	case DimRegion:
		return r.Region
	case DimCategory:
		return r.Category
	case DimSegment:
		return r.Segment
	case DimMonth:
		return r.YearMonth
	case DimShipMode:
		return r.ShipMode
	default:
		return ""
	}
}

// safeDiv returns 0 instead of NaN or ±Inf.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func percent(num, den float64) float64 {
	return safeDiv(num, den) * 100
}

// pctChange is the percent change from prev to cur, 0 when prev is 0.
func pctChange(prev, cur float64) float64 {
	return safeDiv(cur-prev, prev) * 100
}

// Round2 rounds to two decimal places; non-finite input becomes 0.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
