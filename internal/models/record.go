package models

import "time"

// Record is one transaction line of the Superstore dataset together with the
// features derived from it at load time. Records are never mutated after load.
type Record struct {
	OrderID      string
	OrderDate    time.Time
	ShipDate     time.Time
	CustomerID   string
	CustomerName string
	Region       string
	Category     string
	SubCategory  string
	ProductName  string
	Segment      string
	Sales        float64
	Quantity     int
	Discount     float64
	Profit       float64
	ShipMode     string

	Year         int
	Month        int
	Quarter      int
	Weekday      string
	YearMonth    string
	ShippingDays int
	ProfitMargin float64
}

// Selection is the year/region/category filter supplied by the UI. An empty
// slice for a dimension selects nothing in that dimension.
type Selection struct {
	Years      []int    `json:"years"`
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}

// Options lists the distinct values a Selection can draw from.
type Options struct {
	Years      []int    `json:"years"`
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}
