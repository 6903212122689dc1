package dataset

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"superstore-dashboard/internal/models"
)

// Weekdays is the fixed Monday-first vocabulary used for the weekday feature.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ProfitMargin returns profit/sales as a percentage rounded to two decimals.
// It is 0 when sales is 0 or the ratio is not finite.
func ProfitMargin(profit, sales float64) float64 {
	if sales == 0 {
		return 0
	}
	m := profit / sales * 100
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0
	}
	return decimal.NewFromFloat(m).Round(2).InexactFloat64()
}

// ShippingDays is the whole-day difference ship - order. Negative values are
// passed through untouched.
func ShippingDays(order, ship time.Time) int {
	o := time.Date(order.Year(), order.Month(), order.Day(), 0, 0, 0, 0, time.UTC)
	s := time.Date(ship.Year(), ship.Month(), ship.Day(), 0, 0, 0, 0, time.UTC)
	return int(s.Sub(o).Hours() / 24)
}

// WeekdayName maps time.Weekday (Sunday=0) onto the Monday-first vocabulary.
func WeekdayName(t time.Time) string {
	return Weekdays[(int(t.Weekday())+6)%7]
}

// Derive fills the calendar, shipping and margin features of r.
func Derive(r models.Record) models.Record {
	r.Year = r.OrderDate.Year()
	r.Month = int(r.OrderDate.Month())
	r.Quarter = (r.Month-1)/3 + 1
	r.Weekday = WeekdayName(r.OrderDate)
	r.YearMonth = r.OrderDate.Format("2006-01")
	r.ShippingDays = ShippingDays(r.OrderDate, r.ShipDate)
	r.ProfitMargin = ProfitMargin(r.Profit, r.Sales)
	return r
}
