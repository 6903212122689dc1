package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"superstore-dashboard/internal/models"
)

func TestShipModes(t *testing.T) {
	records := derive(
		models.Record{ShipMode: "Same Day", OrderDate: day(2021, 1, 1), ShipDate: day(2021, 1, 1), Sales: 100, Profit: 25},
		models.Record{ShipMode: "Standard Class", OrderDate: day(2021, 1, 1), ShipDate: day(2021, 1, 5), Sales: 40, Profit: -4},
		models.Record{ShipMode: "Standard Class", OrderDate: day(2021, 1, 1), ShipDate: day(2021, 1, 7), Sales: 60, Profit: 14},
	)

	want := []models.ShipModeSummary{
		{ShipMode: "Same Day", Sales: 100, Profit: 25, AvgShippingDays: 0, Count: 1, ProfitMargin: 25},
		{ShipMode: "Standard Class", Sales: 100, Profit: 10, AvgShippingDays: 5, Count: 2, ProfitMargin: 10},
	}
	if diff := cmp.Diff(want, ShipModes(records)); diff != "" {
		t.Errorf("ShipModes mismatch (-want +got):\n%s", diff)
	}
}

func TestMarginHistogram(t *testing.T) {
	records := derive(
		models.Record{OrderDate: day(2021, 1, 1), Sales: 100, Profit: 0},
		models.Record{OrderDate: day(2021, 1, 1), Sales: 100, Profit: 10},
		models.Record{OrderDate: day(2021, 1, 1), Sales: 100, Profit: 20},
	)

	want := []models.HistogramBin{
		{Lower: 0, Upper: 10, Count: 1},
		{Lower: 10, Upper: 20, Count: 2},
	}
	if diff := cmp.Diff(want, MarginHistogram(records, 2)); diff != "" {
		t.Errorf("MarginHistogram mismatch (-want +got):\n%s", diff)
	}
}

func TestMarginHistogram_CountsEveryRecord(t *testing.T) {
	records := exampleRecords()
	var total int
	for _, bin := range MarginHistogram(records, 50) {
		total += bin.Count
	}
	if total != len(records) {
		t.Errorf("histogram counted %d records, want %d", total, len(records))
	}
}

func TestMarginHistogram_SingleValue(t *testing.T) {
	records := derive(models.Record{OrderDate: day(2021, 1, 1), Sales: 10, Profit: 1})

	got := MarginHistogram(records, 4)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0].Lower != 9.5 || got[3].Upper != 10.5 {
		t.Errorf("range = [%v, %v], want [9.5, 10.5]", got[0].Lower, got[3].Upper)
	}
	if got[2].Count != 1 {
		t.Errorf("bins = %+v", got)
	}
}

func TestMarginHistogram_Empty(t *testing.T) {
	if got := MarginHistogram(nil, 50); got == nil || len(got) != 0 {
		t.Errorf("MarginHistogram(nil) = %#v, want empty slice", got)
	}
}

func TestQuarterTrend(t *testing.T) {
	want := []models.QuarterSales{
		{Year: 2021, Quarter: 1, Label: "2021-Q1", Sales: 100},
		{Year: 2021, Quarter: 2, Label: "2021-Q2", Sales: 50},
		{Year: 2022, Quarter: 1, Label: "2022-Q1", Sales: 200},
	}
	if diff := cmp.Diff(want, QuarterTrend(exampleRecords())); diff != "" {
		t.Errorf("QuarterTrend mismatch (-want +got):\n%s", diff)
	}
}

func TestWeekdayPattern(t *testing.T) {
	// 2021-03-01 is a Monday; 2021-06-01 and 2022-03-01 are Tuesdays.
	got := WeekdayPattern(exampleRecords())

	if len(got) != 7 {
		t.Fatalf("len = %d, want 7", len(got))
	}
	if got[0] != (models.WeekdaySales{Weekday: "Monday", AvgSales: 100}) {
		t.Errorf("Monday = %+v", got[0])
	}
	if got[1] != (models.WeekdaySales{Weekday: "Tuesday", AvgSales: 125}) {
		t.Errorf("Tuesday = %+v", got[1])
	}
	if got[6].Weekday != "Sunday" || got[6].AvgSales != 0 {
		t.Errorf("Sunday = %+v", got[6])
	}
}

func TestDiscountSample(t *testing.T) {
	records := make([]models.Record, 0, 100)
	for i := 0; i < 100; i++ {
		records = append(records, models.Record{Sales: float64(i), Discount: 0.1, Category: "Tech"})
	}

	t.Run("smaller than n returns everything", func(t *testing.T) {
		got := DiscountSample(records[:5], 1000, rand.New(rand.NewPCG(1, 2)))
		if len(got) != 5 {
			t.Errorf("len = %d, want 5", len(got))
		}
	})

	t.Run("sample keeps source order without repeats", func(t *testing.T) {
		got := DiscountSample(records, 10, rand.New(rand.NewPCG(1, 2)))
		if len(got) != 10 {
			t.Fatalf("len = %d, want 10", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].Sales <= got[i-1].Sales {
				t.Errorf("sample out of order at %d: %v <= %v", i, got[i].Sales, got[i-1].Sales)
			}
		}
	})

	t.Run("same seed same sample", func(t *testing.T) {
		a := DiscountSample(records, 10, rand.New(rand.NewPCG(7, 7)))
		b := DiscountSample(records, 10, rand.New(rand.NewPCG(7, 7)))
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("samples differ (-a +b):\n%s", diff)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := DiscountSample(nil, 10, rand.New(rand.NewPCG(1, 2))); len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}

func TestDiscountMarginBands(t *testing.T) {
	var records []models.Record
	for i, d := range []float64{0, 0.2, 0.4, 0.6, 0.8} {
		records = append(records, derive(models.Record{
			OrderDate: day(2021, 1, 1),
			Discount:  d,
			Sales:     100,
			Profit:    float64(10 * i),
		})...)
	}

	got := DiscountMarginBands(records, 5)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i, band := range got {
		if band.Count != 1 {
			t.Errorf("band %d count = %d, want 1", i, band.Count)
		}
		if !approx(band.AvgMargin, float64(10*i)) {
			t.Errorf("band %d AvgMargin = %v, want %v", i, band.AvgMargin, 10*i)
		}
	}
	if got[0].Label != "(-0.0008, 0.16]" {
		t.Errorf("first label = %q", got[0].Label)
	}
	if got[0].Lower >= 0 || got[4].Upper != 0.8 {
		t.Errorf("edges = [%v, %v]", got[0].Lower, got[4].Upper)
	}
}

func TestDiscountMarginBands_ConstantDiscount(t *testing.T) {
	records := exampleRecords()[1:]

	var total int
	for _, band := range DiscountMarginBands(records, 5) {
		total += band.Count
	}
	if total != len(records) {
		t.Errorf("bands counted %d records, want %d", total, len(records))
	}
}

func TestDiscountMarginBands_Empty(t *testing.T) {
	if got := DiscountMarginBands(nil, 5); len(got) != 0 {
		t.Errorf("DiscountMarginBands(nil) = %v", got)
	}
}
