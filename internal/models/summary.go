package models

type Overview struct {
	TotalSales    float64 `json:"total_sales"`
	TotalProfit   float64 `json:"total_profit"`
	Orders        int     `json:"orders"`
	Records       int     `json:"records"`
	Customers     int     `json:"customers"`
	AvgOrderValue float64 `json:"avg_order_value"`
	ProfitMargin  float64 `json:"profit_margin"`
	// PeriodStart and PeriodEnd are the first and last order dates as
	// YYYY-MM-DD, empty for an empty view.
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

type MonthlySales struct {
	Month string  `json:"month"`
	Sales float64 `json:"sales"`
}

type DimensionSales struct {
	Key   string  `json:"key"`
	Sales float64 `json:"sales"`
}

type ProductSales struct {
	ProductName string  `json:"product_name"`
	Sales       float64 `json:"sales"`
}

type YearSummary struct {
	Year   int     `json:"year"`
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
	Orders int     `json:"orders"`
}

type SegmentPerformance struct {
	Segment string  `json:"segment"`
	Sales   float64 `json:"sales"`
	Profit  float64 `json:"profit"`
	Orders  int     `json:"orders"`
}

type CategoryProfitability struct {
	Category     string  `json:"category"`
	Sales        float64 `json:"sales"`
	Profit       float64 `json:"profit"`
	ProfitMargin float64 `json:"profit_margin"`
}

type LossSummary struct {
	Records   int     `json:"records"`
	LossCount int     `json:"loss_count"`
	TotalLoss float64 `json:"total_loss"`
	LossRate  float64 `json:"loss_rate"`
}

type DimensionLoss struct {
	Key  string  `json:"key"`
	Loss float64 `json:"loss"`
}

type SegmentLoss struct {
	Segment   string  `json:"segment"`
	TotalLoss float64 `json:"total_loss"`
	MeanLoss  float64 `json:"mean_loss"`
	Count     int     `json:"count"`
}

type ProductLoss struct {
	ProductName string  `json:"product_name"`
	Loss        float64 `json:"loss"`
}

type DiscountBandLoss struct {
	Band  string  `json:"band"`
	Loss  float64 `json:"loss"`
	Count int     `json:"count"`
	Sales float64 `json:"sales"`
}

type ShipModeSummary struct {
	ShipMode        string  `json:"ship_mode"`
	Sales           float64 `json:"sales"`
	Profit          float64 `json:"profit"`
	AvgShippingDays float64 `json:"avg_shipping_days"`
	Count           int     `json:"count"`
	ProfitMargin    float64 `json:"profit_margin"`
}

type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type QuarterSales struct {
	Year    int     `json:"year"`
	Quarter int     `json:"quarter"`
	Label   string  `json:"label"`
	Sales   float64 `json:"sales"`
}

type WeekdaySales struct {
	Weekday  string  `json:"weekday"`
	AvgSales float64 `json:"avg_sales"`
}

type DiscountPoint struct {
	Discount float64 `json:"discount"`
	Sales    float64 `json:"sales"`
	Category string  `json:"category"`
}

type MarginBand struct {
	Label     string  `json:"label"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	AvgMargin float64 `json:"avg_margin"`
	Count     int     `json:"count"`
}

type CustomerType string

const (
	CustomerNew    CustomerType = "new"
	CustomerRepeat CustomerType = "repeat"
)

type CustomerOrders struct {
	CustomerID   string       `json:"customer_id"`
	CustomerName string       `json:"customer_name"`
	Orders       int          `json:"orders"`
	Sales        float64      `json:"sales"`
	Profit       float64      `json:"profit"`
	Type         CustomerType `json:"type"`
}

type CustomerTypeSummary struct {
	Type      CustomerType `json:"type"`
	Customers int          `json:"customers"`
	Sales     float64      `json:"sales"`
	Profit    float64      `json:"profit"`
}

// RFMCustomer scores one customer on recency (days since the last order,
// counted back from the newest order in the view), frequency (distinct
// orders) and monetary value (summed sales). Scores run 1 to 4, higher is
// better.
type RFMCustomer struct {
	CustomerID     string  `json:"customer_id"`
	CustomerName   string  `json:"customer_name"`
	Recency        int     `json:"recency"`
	Frequency      int     `json:"frequency"`
	Monetary       float64 `json:"monetary"`
	RecencyScore   int     `json:"recency_score"`
	FrequencyScore int     `json:"frequency_score"`
	MonetaryScore  int     `json:"monetary_score"`
	Segment        string  `json:"segment"`
}

type RFMSegment struct {
	Segment       string  `json:"segment"`
	Customers     int     `json:"customers"`
	AvgRecency    float64 `json:"avg_recency"`
	AvgFrequency  float64 `json:"avg_frequency"`
	AvgMonetary   float64 `json:"avg_monetary"`
	TotalMonetary float64 `json:"total_monetary"`
}

type RFMSummary struct {
	Customers         int            `json:"customers"`
	AvgRecency        float64        `json:"avg_recency"`
	AvgFrequency      float64        `json:"avg_frequency"`
	AvgMonetary       float64        `json:"avg_monetary"`
	Segments          []RFMSegment   `json:"segments"`
	RecencyHistogram  []HistogramBin `json:"recency_histogram"`
	MonetaryHistogram []HistogramBin `json:"monetary_histogram"`
}

type OrderCountBucket struct {
	Orders    int `json:"orders"`
	Customers int `json:"customers"`
}

type YearGrowth struct {
	Year   int     `json:"year"`
	Sales  float64 `json:"sales"`
	Growth float64 `json:"growth"`
}

type MonthGrowth struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Sales  float64 `json:"sales"`
	Prior  float64 `json:"prior_sales"`
	Growth float64 `json:"growth"`
}

type CorrelationMatrix struct {
	Fields []string    `json:"fields"`
	Values [][]float64 `json:"values"`
}

type CrossTabCell struct {
	Region     string  `json:"region"`
	Category   string  `json:"category"`
	SalesSum   float64 `json:"sales_sum"`
	SalesMean  float64 `json:"sales_mean"`
	Count      int     `json:"count"`
	ProfitSum  float64 `json:"profit_sum"`
	ProfitMean float64 `json:"profit_mean"`
	Quantity   int     `json:"quantity"`
}

// DetailRow is the flat shape used by the detail table and the CSV export.
type DetailRow struct {
	OrderDate    string  `json:"order_date" dataframe:"Order Date"`
	OrderID      string  `json:"order_id" dataframe:"Order ID"`
	CustomerName string  `json:"customer_name" dataframe:"Customer Name"`
	Region       string  `json:"region" dataframe:"Region"`
	Category     string  `json:"category" dataframe:"Category"`
	ProductName  string  `json:"product_name" dataframe:"Product Name"`
	Sales        float64 `json:"sales" dataframe:"Sales"`
	Profit       float64 `json:"profit" dataframe:"Profit"`
	Discount     float64 `json:"discount" dataframe:"Discount"`
	Quantity     int     `json:"quantity" dataframe:"Quantity"`
	ProfitMargin float64 `json:"profit_margin" dataframe:"Profit Margin"`
}
