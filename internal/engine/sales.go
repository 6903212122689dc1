package engine

import (
	"cmp"
	"slices"
	"time"

	"superstore-dashboard/internal/models"
)

// Overview computes the KPI header: totals, distinct orders and customers,
// mean sales per line, the overall profit margin and the covered period.
func Overview(records []models.Record) models.Overview {
	var sales, profit float64
	var first, last time.Time
	orders := make(map[string]struct{})
	customers := make(map[string]struct{})
	for i, r := range records {
		sales += r.Sales
		profit += r.Profit
		orders[r.OrderID] = struct{}{}
		customers[r.CustomerID] = struct{}{}
		if i == 0 || r.OrderDate.Before(first) {
			first = r.OrderDate
		}
		if i == 0 || r.OrderDate.After(last) {
			last = r.OrderDate
		}
	}

	ov := models.Overview{
		TotalSales:    sales,
		TotalProfit:   profit,
		Orders:        len(orders),
		Records:       len(records),
		Customers:     len(customers),
		AvgOrderValue: safeDiv(sales, float64(len(records))),
		ProfitMargin:  percent(profit, sales),
	}
	if len(records) > 0 {
		ov.PeriodStart = first.Format(time.DateOnly)
		ov.PeriodEnd = last.Format(time.DateOnly)
	}
	return ov
}

// MonthlySales sums sales per YYYY-MM label in chronological order.
func MonthlySales(records []models.Record) []models.MonthlySales {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[r.YearMonth] += r.Sales
	}

	out := make([]models.MonthlySales, 0, len(totals))
	for _, month := range sortedKeys(totals) {
		out = append(out, models.MonthlySales{Month: month, Sales: totals[month]})
	}
	return out
}

// SalesBy sums sales per value of dim, ordered by key.
func SalesBy(records []models.Record, dim Dimension) []models.DimensionSales {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[dim.value(r)] += r.Sales
	}

	out := make([]models.DimensionSales, 0, len(totals))
	for _, key := range sortedKeys(totals) {
		out = append(out, models.DimensionSales{Key: key, Sales: totals[key]})
	}
	return out
}

// TopProducts returns at most n products by summed sales, largest first.
func TopProducts(records []models.Record, n int) []models.ProductSales {
	totals := make(map[string]float64)
	for _, r := range records {
		totals[r.ProductName] += r.Sales
	}

	out := make([]models.ProductSales, 0, len(totals))
	for name, sales := range totals {
		out = append(out, models.ProductSales{ProductName: name, Sales: sales})
	}
	slices.SortFunc(out, func(a, b models.ProductSales) int {
		if c := cmp.Compare(b.Sales, a.Sales); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductName, b.ProductName)
	})
	return head(out, n)
}

// YearlyRollup sums sales and profit and counts distinct orders per year.
func YearlyRollup(records []models.Record) []models.YearSummary {
	type acc struct {
		sales, profit float64
		orders        map[string]struct{}
	}
	groups := make(map[int]*acc)
	for _, r := range records {
		g := groups[r.Year]
		if g == nil {
			g = &acc{orders: make(map[string]struct{})}
			groups[r.Year] = g
		}
		g.sales += r.Sales
		g.profit += r.Profit
		g.orders[r.OrderID] = struct{}{}
	}

	out := make([]models.YearSummary, 0, len(groups))
	for _, year := range sortedKeys(groups) {
		g := groups[year]
		out = append(out, models.YearSummary{
			Year:   year,
			Sales:  g.sales,
			Profit: g.profit,
			Orders: len(g.orders),
		})
	}
	return out
}

// SegmentPerformance sums sales and profit and counts distinct orders per
// customer segment.
func SegmentPerformance(records []models.Record) []models.SegmentPerformance {
	type acc struct {
		sales, profit float64
		orders        map[string]struct{}
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		g := groups[r.Segment]
		if g == nil {
			g = &acc{orders: make(map[string]struct{})}
			groups[r.Segment] = g
		}
		g.sales += r.Sales
		g.profit += r.Profit
		g.orders[r.OrderID] = struct{}{}
	}

	out := make([]models.SegmentPerformance, 0, len(groups))
	for _, seg := range sortedKeys(groups) {
		g := groups[seg]
		out = append(out, models.SegmentPerformance{
			Segment: seg,
			Sales:   g.sales,
			Profit:  g.profit,
			Orders:  len(g.orders),
		})
	}
	return out
}

// CategoryProfitability reports sales, profit and margin per category.
func CategoryProfitability(records []models.Record) []models.CategoryProfitability {
	sales := make(map[string]float64)
	profit := make(map[string]float64)
	for _, r := range records {
		sales[r.Category] += r.Sales
		profit[r.Category] += r.Profit
	}

	out := make([]models.CategoryProfitability, 0, len(sales))
	for _, cat := range sortedKeys(sales) {
		out = append(out, models.CategoryProfitability{
			Category:     cat,
			Sales:        sales[cat],
			Profit:       profit[cat],
			ProfitMargin: percent(profit[cat], sales[cat]),
		})
	}
	return out
}

// Detail returns the first n records in the flat table shape.
func Detail(records []models.Record, n int) []models.DetailRow {
	rows := make([]models.DetailRow, 0, min(max(n, 0), len(records)))
	for _, r := range head(records, n) {
		rows = append(rows, detailRow(r))
	}
	return rows
}

func detailRow(r models.Record) models.DetailRow {
	return models.DetailRow{
		OrderDate:    r.OrderDate.Format("2006-01-02"),
		OrderID:      r.OrderID,
		CustomerName: r.CustomerName,
		Region:       r.Region,
		Category:     r.Category,
		ProductName:  r.ProductName,
		Sales:        r.Sales,
		Profit:       r.Profit,
		Discount:     r.Discount,
		Quantity:     r.Quantity,
		ProfitMargin: r.ProfitMargin,
	}
}

func head[T any](items []T, n int) []T {
	if n <= 0 {
		return items[:0]
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
