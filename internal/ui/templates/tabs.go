package templates

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/a-h/templ"

	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

// KPICards renders the headline figures of the filtered view.
func KPICards(ov models.Overview) templ.Component {
	return fragment("kpis", ov)
}

// DetailTable renders the first rows of the filtered view.
func DetailTable(rows []models.DetailRow) templ.Component {
	return fragment("detail", rows)
}

type panelView struct {
	Tab   string
	Cards []card
}

// card is one titled section of a panel; exactly one of Table, Bars and
// Scatter is set.
type card struct {
	Title   string
	Note    string
	Table   *tableView
	Bars    *barsView
	Scatter *scatterView
}

type column struct {
	Title   string
	Numeric bool
}

type cell struct {
	Text    string
	Numeric bool
}

type tableView struct {
	ID      string
	Columns []column
	Rows    [][]cell
}

func newTable(id string, cols []column, rows [][]string) *tableView {
	t := &tableView{ID: id, Columns: cols, Rows: make([][]cell, len(rows))}
	for i, row := range rows {
		t.Rows[i] = make([]cell, len(row))
		for j, text := range row {
			t.Rows[i][j] = cell{Text: text, Numeric: j < len(cols) && cols[j].Numeric}
		}
	}
	return t
}

type bar struct {
	Label    string
	Value    string
	Width    string
	Negative bool
}

type barsView struct {
	ID   string
	Bars []bar
}

// newBars scales every bar to the largest absolute value.
func newBars(id string, labels []string, values []float64, format func(float64) string) *barsView {
	var peak float64
	for _, v := range values {
		peak = max(peak, abs(v))
	}
	b := &barsView{ID: id, Bars: make([]bar, len(values))}
	for i, v := range values {
		width := 0.0
		if peak > 0 {
			width = abs(v) / peak * 100
		}
		b.Bars[i] = bar{
			Label:    labels[i],
			Value:    format(v),
			Width:    strconv.FormatFloat(width, 'f', 1, 64),
			Negative: v < 0,
		}
	}
	return b
}

func histogramBars(id string, bins []models.HistogramBin, label func(lo, hi float64) string) *barsView {
	labels, values := make([]string, len(bins)), make([]float64, len(bins))
	for i, b := range bins {
		labels[i], values[i] = label(b.Lower, b.Upper), float64(b.Count)
	}
	return newBars(id, labels, values, count)
}

type point struct {
	X, Y  string
	Class string
	Label string
}

type legendEntry struct {
	Class string
	Label string
}

type scatterView struct {
	ID     string
	Points []point
	Legend []legendEntry
}

// Plot area inside the 400x240 viewBox.
const (
	plotLeft   = 30.0
	plotWidth  = 360.0
	plotBottom = 220.0
	plotHeight = 200.0
)

// newScatter plots discount on x against sales on y, one colour per category.
func newScatter(id string, pts []models.DiscountPoint) *scatterView {
	var maxDiscount, maxSales float64
	groups := make(map[string]struct{})
	for _, p := range pts {
		maxDiscount = max(maxDiscount, p.Discount)
		maxSales = max(maxSales, p.Sales)
		groups[p.Category] = struct{}{}
	}

	s := &scatterView{ID: id}
	classes := make(map[string]string, len(groups))
	for i, c := range slices.Sorted(maps.Keys(groups)) {
		classes[c] = "c" + strconv.Itoa(i%4)
		s.Legend = append(s.Legend, legendEntry{Class: classes[c], Label: c})
	}

	s.Points = make([]point, len(pts))
	for i, p := range pts {
		x, y := plotLeft, plotBottom
		if maxDiscount > 0 {
			x += p.Discount / maxDiscount * plotWidth
		}
		if maxSales > 0 {
			y -= p.Sales / maxSales * plotHeight
		}
		s.Points[i] = point{
			X:     strconv.FormatFloat(x, 'f', 1, 64),
			Y:     strconv.FormatFloat(y, 'f', 1, 64),
			Class: classes[p.Category],
			Label: fmt.Sprintf("%s: %s at %s", p.Category, Money(p.Sales), Percent(p.Discount*100)),
		}
	}
	return s
}

// TabPanel renders one tab report into the element the page reserves for it.
func TabPanel(tab services.Tab, report any) templ.Component {
	var cards []card
	switch r := report.(type) {
	case services.SalesReport:
		cards = salesCards(r)
	case services.LossReport:
		cards = lossCards(r)
	case services.OperationsReport:
		cards = operationsCards(r)
	case services.CustomersReport:
		cards = customersCards(r)
	case services.StatisticsReport:
		cards = statisticsCards(r)
	default:
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return fmt.Errorf("no panel for report %T", report)
		})
	}
	return fragment("panel", panelView{Tab: string(tab), Cards: cards})
}

func salesCards(r services.SalesReport) []card {
	months, monthly := make([]string, len(r.Monthly)), make([]float64, len(r.Monthly))
	for i, m := range r.Monthly {
		months[i], monthly[i] = m.Month, m.Sales
	}
	segments := make([][]string, len(r.Segments))
	for i, s := range r.Segments {
		segments[i] = []string{s.Segment, Money(s.Sales), Money(s.Profit), Number(s.Orders)}
	}
	products := make([][]string, len(r.TopProducts))
	for i, p := range r.TopProducts {
		products[i] = []string{strconv.Itoa(i + 1), p.ProductName, Money(p.Sales)}
	}
	years := make([][]string, len(r.Yearly))
	for i, y := range r.Yearly {
		years[i] = []string{strconv.Itoa(y.Year), Money(y.Sales), Money(y.Profit), Number(y.Orders)}
	}

	return []card{
		{Title: "Monthly Sales", Bars: newBars("monthly-sales", months, monthly, Money)},
		{Title: "Sales by Region", Bars: dimensionBars("sales-region", r.ByRegion)},
		{Title: "Sales by Category", Bars: dimensionBars("sales-category", r.ByCategory)},
		{Title: "Sales by Segment", Bars: dimensionBars("sales-segment", r.BySegment)},
		{Title: "Segment Performance", Table: newTable("segment-performance",
			[]column{{"Segment", false}, {"Sales", true}, {"Profit", true}, {"Orders", true}}, segments)},
		{Title: "Top Products", Table: newTable("top-products",
			[]column{{"#", true}, {"Product", false}, {"Sales", true}}, products)},
		{Title: "Yearly Summary", Table: newTable("yearly-summary",
			[]column{{"Year", false}, {"Sales", true}, {"Profit", true}, {"Orders", true}}, years)},
	}
}

func dimensionBars(id string, rows []models.DimensionSales) *barsView {
	labels, values := make([]string, len(rows)), make([]float64, len(rows))
	for i, d := range rows {
		labels[i], values[i] = d.Key, d.Sales
	}
	return newBars(id, labels, values, Money)
}

func lossBars(id string, rows []models.DimensionLoss) *barsView {
	labels, values := make([]string, len(rows)), make([]float64, len(rows))
	for i, d := range rows {
		labels[i], values[i] = d.Key, d.Loss
	}
	return newBars(id, labels, values, Money)
}

func lossCards(r services.LossReport) []card {
	segments := make([][]string, len(r.BySegment))
	for i, s := range r.BySegment {
		segments[i] = []string{s.Segment, Money(s.TotalLoss), Money(s.MeanLoss), Number(s.Count)}
	}
	products := make([][]string, len(r.WorstProducts))
	for i, p := range r.WorstProducts {
		products[i] = []string{p.ProductName, Money(p.Loss)}
	}
	bands := make([][]string, len(r.DiscountBands))
	for i, b := range r.DiscountBands {
		bands[i] = []string{b.Band, Money(b.Loss), Number(b.Count), Money(b.Sales)}
	}

	return []card{
		{Title: "Loss Summary", Table: newTable("loss-summary",
			[]column{{"Loss lines", true}, {"Total loss", true}, {"Loss rate", true}},
			[][]string{{Number(r.Summary.LossCount), Money(r.Summary.TotalLoss), Percent(r.Summary.LossRate)}})},
		{Title: "Loss by Region", Bars: lossBars("loss-region", r.ByRegion)},
		{Title: "Loss by Category", Bars: lossBars("loss-category", r.ByCategory)},
		{Title: "Loss by Month", Bars: lossBars("loss-month", r.ByMonth)},
		{Title: "Loss by Segment", Table: newTable("loss-segment",
			[]column{{"Segment", false}, {"Total", true}, {"Mean", true}, {"Lines", true}}, segments)},
		{Title: "Worst Products", Table: newTable("worst-products",
			[]column{{"Product", false}, {"Loss", true}}, products)},
		{Title: "Loss by Discount Band", Table: newTable("discount-bands",
			[]column{{"Discount", false}, {"Loss", true}, {"Lines", true}, {"Sales", true}}, bands)},
	}
}

func operationsCards(r services.OperationsReport) []card {
	modes := make([][]string, len(r.ShipModes))
	for i, s := range r.ShipModes {
		modes[i] = []string{s.ShipMode, Money(s.Sales), Money(s.Profit), Decimal(s.AvgShippingDays), Number(s.Count), Percent(s.ProfitMargin)}
	}
	quarters, quarterSales := make([]string, len(r.Quarters)), make([]float64, len(r.Quarters))
	for i, q := range r.Quarters {
		quarters[i], quarterSales[i] = q.Label, q.Sales
	}
	weekdays, weekdaySales := make([]string, len(r.Weekdays)), make([]float64, len(r.Weekdays))
	for i, d := range r.Weekdays {
		weekdays[i], weekdaySales[i] = d.Weekday, d.AvgSales
	}
	bands := make([][]string, len(r.MarginBands))
	for i, b := range r.MarginBands {
		bands[i] = []string{b.Label, Percent(b.AvgMargin), Number(b.Count)}
	}

	return []card{
		{Title: "Ship Modes", Table: newTable("ship-modes",
			[]column{{"Mode", false}, {"Sales", true}, {"Profit", true}, {"Avg days", true}, {"Lines", true}, {"Margin", true}}, modes)},
		{Title: "Profit Margin Distribution", Bars: histogramBars("margin-histogram", r.MarginHistogram, func(lo, hi float64) string {
			return Decimal(lo) + "–" + Decimal(hi)
		})},
		{Title: "Quarterly Sales", Bars: newBars("quarter-trend", quarters, quarterSales, Money)},
		{Title: "Average Sales by Weekday", Bars: newBars("weekday-pattern", weekdays, weekdaySales, Money)},
		{
			Title:   "Discount vs Sales",
			Note:    Number(len(r.DiscountSample)) + " sampled lines",
			Scatter: newScatter("discount-sample", r.DiscountSample),
		},
		{Title: "Profit Margin by Discount", Table: newTable("margin-bands",
			[]column{{"Discount", false}, {"Avg margin", true}, {"Lines", true}}, bands)},
	}
}

func customersCards(r services.CustomersReport) []card {
	types := make([][]string, len(r.Types))
	for i, c := range r.Types {
		types[i] = []string{string(c.Type), Number(c.Customers), Money(c.Sales), Money(c.Profit)}
	}
	top := make([][]string, len(r.TopCustomers))
	for i, c := range r.TopCustomers {
		top[i] = []string{c.CustomerName, Number(c.Orders), Money(c.Sales), Money(c.Profit)}
	}
	counts, customers := make([]string, len(r.OrderCounts)), make([]float64, len(r.OrderCounts))
	for i, b := range r.OrderCounts {
		counts[i], customers[i] = Number(b.Orders)+" orders", float64(b.Customers)
	}
	segments := make([][]string, len(r.RFM.Segments))
	for i, s := range r.RFM.Segments {
		segments[i] = []string{s.Segment, Number(s.Customers), Decimal(s.AvgRecency), Decimal(s.AvgFrequency), Money(s.AvgMonetary), Money(s.TotalMonetary)}
	}

	return []card{
		{Title: "New vs Repeat Customers", Table: newTable("customer-types",
			[]column{{"Type", false}, {"Customers", true}, {"Sales", true}, {"Profit", true}}, types)},
		{Title: "Top Customers", Table: newTable("top-customers",
			[]column{{"Customer", false}, {"Orders", true}, {"Sales", true}, {"Profit", true}}, top)},
		{Title: "Orders per Customer", Bars: newBars("order-counts", counts, customers, count)},
		{Title: "RFM Overview", Table: newTable("rfm-overview",
			[]column{{"Customers", true}, {"Avg recency (days)", true}, {"Avg frequency", true}, {"Avg monetary", true}},
			[][]string{{Number(r.RFM.Customers), Decimal(r.RFM.AvgRecency), Decimal(r.RFM.AvgFrequency), Money(r.RFM.AvgMonetary)}})},
		{Title: "RFM Segments", Table: newTable("rfm-segments",
			[]column{{"Segment", false}, {"Customers", true}, {"Avg recency", true}, {"Avg frequency", true}, {"Avg monetary", true}, {"Total monetary", true}}, segments)},
		{Title: "Recency Distribution", Bars: histogramBars("rfm-recency", r.RFM.RecencyHistogram, func(lo, hi float64) string {
			return fmt.Sprintf("%.0f–%.0f days", lo, hi)
		})},
		{Title: "Monetary Distribution", Bars: histogramBars("rfm-monetary", r.RFM.MonetaryHistogram, func(lo, hi float64) string {
			return Money(lo) + "–" + Money(hi)
		})},
	}
}

func statisticsCards(r services.StatisticsReport) []card {
	growth := make([][]string, len(r.YearlyGrowth))
	for i, y := range r.YearlyGrowth {
		growth[i] = []string{strconv.Itoa(y.Year), Money(y.Sales), Percent(y.Growth)}
	}
	yoy := make([][]string, len(r.MonthlyYoY))
	for i, m := range r.MonthlyYoY {
		yoy[i] = []string{fmt.Sprintf("%d-%02d", m.Year, m.Month), Money(m.Sales), Money(m.Prior), Percent(m.Growth)}
	}
	corrCols := []column{{"", false}}
	for _, f := range r.Correlation.Fields {
		corrCols = append(corrCols, column{f, true})
	}
	corr := make([][]string, len(r.Correlation.Values))
	for i, vals := range r.Correlation.Values {
		row := []string{r.Correlation.Fields[i]}
		for _, v := range vals {
			row = append(row, Decimal(v))
		}
		corr[i] = row
	}
	cross := make([][]string, len(r.CrossTab))
	for i, c := range r.CrossTab {
		cross[i] = []string{c.Region, c.Category, Money(c.SalesSum), Money(c.SalesMean), Number(c.Count), Money(c.ProfitSum), Money(c.ProfitMean), Number(c.Quantity)}
	}
	categories := make([][]string, len(r.Categories))
	for i, c := range r.Categories {
		categories[i] = []string{c.Category, Money(c.Sales), Money(c.Profit), Percent(c.ProfitMargin)}
	}

	return []card{
		{Title: "Yearly Growth", Table: newTable("yearly-growth",
			[]column{{"Year", false}, {"Sales", true}, {"Growth", true}}, growth)},
		{Title: "Year-over-Year by Month", Table: newTable("monthly-yoy",
			[]column{{"Month", false}, {"Sales", true}, {"Prior year", true}, {"Growth", true}}, yoy)},
		{Title: "Correlation", Table: newTable("correlation", corrCols, corr)},
		{Title: "Region × Category", Table: newTable("cross-tab", []column{
			{"Region", false}, {"Category", false}, {"Sales", true}, {"Mean sales", true},
			{"Lines", true}, {"Profit", true}, {"Mean profit", true}, {"Quantity", true},
		}, cross)},
		{Title: "Category Profitability", Table: newTable("category-profitability",
			[]column{{"Category", false}, {"Sales", true}, {"Profit", true}, {"Margin", true}}, categories)},
	}
}

func count(v float64) string {
	return Number(int(v))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
