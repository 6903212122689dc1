package templates

import (
	"context"
	"strings"
	"testing"

	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{Money(1234567.891), "$1,234,567.89"},
		{Money(-20), "-$20.00"},
		{Number(9994), "9,994"},
		{Percent(12.346), "12.35%"},
		{Decimal(0.5), "0.50"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestDashboard(t *testing.T) {
	var sb strings.Builder
	opts := models.Options{Years: []int{2016, 2017}, Regions: []string{"East", "West"}, Categories: []string{"Furniture"}}
	if err := Dashboard(opts).Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		`data-on-load="@get(&#39;/sse/refresh-all&#39;)"`,
		`name="year" value="2017"`,
		`name="region" value="West"`,
		`id="tab-statistics"`,
		`id="kpis"`,
		`action="/api/export.csv"`,
		`data-bind="categories"`,
		`data-on-click="$tab = &#39;loss&#39;"`,
	} {
		if !strings.Contains(html, want) && !strings.Contains(html, strings.ReplaceAll(want, "&#39;", "'")) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if !strings.Contains(html, "&#34;years&#34;:[&#34;2016&#34;,&#34;2017&#34;]") {
		t.Errorf("signals not embedded as escaped JSON")
	}
}

func TestKPICards(t *testing.T) {
	var sb strings.Builder
	ov := models.Overview{
		TotalSales: 2297200.86, TotalProfit: 286397.02, Orders: 5009, Records: 9994, Customers: 793,
		AvgOrderValue: 229.86, PeriodStart: "2014-01-03", PeriodEnd: "2017-12-30",
	}
	if err := KPICards(ov).Render(context.Background(), &sb); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"$2,297,200.86", "$286,397.02", "5,009", "793", "$229.86", "9,994 order lines from 2014-01-03 to 2017-12-30"} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("KPI cards missing %q", want)
		}
	}
	if strings.Contains(sb.String(), "No records match") {
		t.Error("empty notice shown for a non-empty view")
	}

	sb.Reset()
	_ = KPICards(models.Overview{}).Render(context.Background(), &sb)
	if !strings.Contains(sb.String(), "No records match the current filters.") {
		t.Error("empty view should show a notice")
	}
}

func TestTabPanel(t *testing.T) {
	tests := []struct {
		tab    services.Tab
		report any
		want   string
	}{
		{services.TabSales, services.SalesReport{TopProducts: []models.ProductSales{{ProductName: "Canon <imageCLASS>", Sales: 61599.82}}}, "Canon &lt;imageCLASS&gt;"},
		{services.TabLoss, services.LossReport{DiscountBands: []models.DiscountBandLoss{{Band: "10–30%", Loss: 12}}}, "10–30%"},
		{services.TabOperations, services.OperationsReport{Weekdays: []models.WeekdaySales{{Weekday: "Monday", AvgSales: 100}}}, "Monday"},
		{services.TabCustomers, services.CustomersReport{Types: []models.CustomerTypeSummary{{Type: models.CustomerRepeat, Customers: 3}}}, "repeat"},
		{services.TabCustomers, services.CustomersReport{RFM: models.RFMSummary{Customers: 2, Segments: []models.RFMSegment{{Segment: "At Risk", Customers: 1}}}}, "At Risk"},
		{services.TabStatistics, services.StatisticsReport{Correlation: models.CorrelationMatrix{Fields: []string{"sales"}, Values: [][]float64{{1}}}}, "1.00"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			var sb strings.Builder
			if err := TabPanel(tt.tab, tt.report).Render(context.Background(), &sb); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			html := sb.String()
			if !strings.HasPrefix(html, `<div id="tab-`+string(tt.tab)+`"`) {
				t.Errorf("panel does not start with its id: %.60s", html)
			}
			if !strings.Contains(html, tt.want) {
				t.Errorf("panel missing %q", tt.want)
			}
		})
	}
}

func TestTabPanel_DiscountScatter(t *testing.T) {
	report := services.OperationsReport{DiscountSample: []models.DiscountPoint{
		{Discount: 0, Sales: 100, Category: "Technology"},
		{Discount: 0.8, Sales: 500, Category: "Furniture"},
		{Discount: 0.2, Sales: 0, Category: "Furniture"},
	}}
	var sb strings.Builder
	if err := TabPanel(services.TabOperations, report).Render(context.Background(), &sb); err != nil {
		t.Fatal(err)
	}
	html := sb.String()

	if got := strings.Count(html, "<circle "); got != 3 {
		t.Errorf("circles = %d, want 3", got)
	}
	for _, want := range []string{
		`id="discount-sample"`,
		"3 sampled lines",
		`cx="30.0" cy="180.0" r="3" class="c1"`,
		`cx="390.0" cy="20.0" r="3" class="c0"`,
		`<span class="c0">Furniture</span>`,
		`<span class="c1">Technology</span>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("scatter missing %q", want)
		}
	}
}

func TestTabPanel_UnknownReport(t *testing.T) {
	var sb strings.Builder
	if err := TabPanel(services.TabSales, 42).Render(context.Background(), &sb); err == nil {
		t.Error("expected error for unsupported report type")
	}
}

func TestDetailTable(t *testing.T) {
	var sb strings.Builder
	rows := []models.DetailRow{{OrderDate: "2016-11-08", OrderID: "CA-2016-152156", Sales: 261.96, Discount: 0.2}}
	if err := DetailTable(rows).Render(context.Background(), &sb); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`id="detail"`, "CA-2016-152156", "$261.96", "20.00%"} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("detail table missing %q", want)
		}
	}

	sb.Reset()
	_ = DetailTable(nil).Render(context.Background(), &sb)
	if !strings.Contains(sb.String(), "No data") {
		t.Error("empty detail table should say No data")
	}
}
