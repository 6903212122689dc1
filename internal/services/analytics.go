package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"superstore-dashboard/internal/config"
	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/engine"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/observability"
)

const rfmHistogramBins = 30

var (
	ErrUnknownTab         = errors.New("unknown tab")
	ErrDatasetUnavailable = errors.New("dataset unavailable")
)

type Tab string

const (
	TabSales      Tab = "sales"
	TabLoss       Tab = "loss"
	TabOperations Tab = "operations"
	TabCustomers  Tab = "customers"
	TabStatistics Tab = "statistics"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{TabSales, TabLoss, TabOperations, TabCustomers, TabStatistics}

func ParseTab(name string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, name)
}

type SalesReport struct {
	Monthly     []models.MonthlySales       `json:"monthly"`
	ByRegion    []models.DimensionSales     `json:"by_region"`
	ByCategory  []models.DimensionSales     `json:"by_category"`
	BySegment   []models.DimensionSales     `json:"by_segment"`
	Segments    []models.SegmentPerformance `json:"segments"`
	TopProducts []models.ProductSales       `json:"top_products"`
	Yearly      []models.YearSummary        `json:"yearly"`
}

type LossReport struct {
	Summary       models.LossSummary        `json:"summary"`
	ByRegion      []models.DimensionLoss    `json:"by_region"`
	ByCategory    []models.DimensionLoss    `json:"by_category"`
	ByMonth       []models.DimensionLoss    `json:"by_month"`
	BySegment     []models.SegmentLoss      `json:"by_segment"`
	WorstProducts []models.ProductLoss      `json:"worst_products"`
	DiscountBands []models.DiscountBandLoss `json:"discount_bands"`
}

type OperationsReport struct {
	ShipModes       []models.ShipModeSummary `json:"ship_modes"`
	MarginHistogram []models.HistogramBin    `json:"margin_histogram"`
	Quarters        []models.QuarterSales    `json:"quarters"`
	Weekdays        []models.WeekdaySales    `json:"weekdays"`
	DiscountSample  []models.DiscountPoint   `json:"discount_sample"`
	MarginBands     []models.MarginBand      `json:"margin_bands"`
}

type CustomersReport struct {
	Types        []models.CustomerTypeSummary `json:"types"`
	TopCustomers []models.CustomerOrders      `json:"top_customers"`
	OrderCounts  []models.OrderCountBucket    `json:"order_counts"`
	RFM          models.RFMSummary            `json:"rfm"`
}

type StatisticsReport struct {
	YearlyGrowth []models.YearGrowth            `json:"yearly_growth"`
	MonthlyYoY   []models.MonthGrowth           `json:"monthly_yoy"`
	Correlation  models.CorrelationMatrix       `json:"correlation"`
	CrossTab     []models.CrossTabCell          `json:"cross_tab"`
	Categories   []models.CategoryProfitability `json:"categories"`
}

// Stats describes the loaded dataset for the admin endpoint.
type Stats struct {
	Records  int            `json:"records"`
	Source   string         `json:"source"`
	Encoding string         `json:"encoding"`
	LoadedAt time.Time      `json:"loaded_at"`
	Options  models.Options `json:"options"`
}

// Analytics evaluates dashboard views over the shared dataset. It holds no
// per-request state; every call filters the dataset afresh.
type Analytics struct {
	holder  *dataset.Holder
	cfg     config.DashboardConfig
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewAnalytics(holder *dataset.Holder, cfg config.DashboardConfig, metrics *observability.Metrics, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		holder:  holder,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

func (a *Analytics) dataset() (*dataset.Dataset, error) {
	ds, err := a.holder.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
	}
	a.metrics.SetDatasetRecords(len(ds.Records))
	return ds, nil
}

func (a *Analytics) Options() (models.Options, error) {
	ds, err := a.dataset()
	if err != nil {
		return models.Options{}, err
	}
	return ds.Options, nil
}

func (a *Analytics) Stats() (Stats, error) {
	ds, err := a.dataset()
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Records:  len(ds.Records),
		Source:   ds.Source,
		Encoding: ds.Encoding,
		LoadedAt: ds.LoadedAt,
		Options:  ds.Options,
	}, nil
}

// view applies sel to the dataset under a span named after the caller's view.
func (a *Analytics) view(ctx context.Context, name string, sel models.Selection) ([]models.Record, func(error), error) {
	ctx, span := observability.StartSpan(ctx, "dashboard."+name,
		attribute.IntSlice("selection.years", sel.Years),
		attribute.StringSlice("selection.regions", sel.Regions),
		attribute.StringSlice("selection.categories", sel.Categories),
	)
	stop := a.metrics.TimeView(name)
	done := func(err error) {
		stop()
		observability.EndSpan(span, err)
	}

	if err := ctx.Err(); err != nil {
		done(err)
		return nil, nil, err
	}
	ds, err := a.dataset()
	if err != nil {
		done(err)
		return nil, nil, err
	}

	records := engine.Apply(ds.Records, sel)
	span.SetAttributes(attribute.Int("view.records", len(records)))
	a.logger.DebugContext(ctx, "view filtered", "view", name, "records", len(records))
	return records, done, nil
}

func (a *Analytics) Overview(ctx context.Context, sel models.Selection) (models.Overview, error) {
	records, done, err := a.view(ctx, "overview", sel)
	if err != nil {
		return models.Overview{}, err
	}
	defer done(nil)
	return engine.Overview(records), nil
}

// Tab computes the report of one tab. The concrete type is the matching
// *Report struct.
func (a *Analytics) Tab(ctx context.Context, tab Tab, sel models.Selection) (any, error) {
	if _, err := ParseTab(string(tab)); err != nil {
		return nil, err
	}
	records, done, err := a.view(ctx, "tab."+string(tab), sel)
	if err != nil {
		return nil, err
	}
	defer done(nil)

	switch tab {
	case TabSales:
		return a.sales(records), nil
	case TabLoss:
		return a.loss(records), nil
	case TabOperations:
		return a.operations(records), nil
	case TabCustomers:
		return a.customers(records), nil
	default:
		return a.statistics(records), nil
	}
}

func (a *Analytics) sales(records []models.Record) SalesReport {
	return SalesReport{
		Monthly:     engine.MonthlySales(records),
		ByRegion:    engine.SalesBy(records, engine.DimRegion),
		ByCategory:  engine.SalesBy(records, engine.DimCategory),
		BySegment:   engine.SalesBy(records, engine.DimSegment),
		Segments:    engine.SegmentPerformance(records),
		TopProducts: engine.TopProducts(records, a.cfg.TopN),
		Yearly:      engine.YearlyRollup(records),
	}
}

func (a *Analytics) loss(records []models.Record) LossReport {
	return LossReport{
		Summary:       engine.Loss(records),
		ByRegion:      engine.LossBy(records, engine.DimRegion),
		ByCategory:    engine.LossBy(records, engine.DimCategory),
		ByMonth:       engine.LossBy(records, engine.DimMonth),
		BySegment:     engine.LossBySegment(records),
		WorstProducts: engine.WorstProducts(records, a.cfg.TopN),
		DiscountBands: engine.DiscountBandLoss(records),
	}
}

func (a *Analytics) operations(records []models.Record) OperationsReport {
	return OperationsReport{
		ShipModes:       engine.ShipModes(records),
		MarginHistogram: engine.MarginHistogram(records, a.cfg.HistogramBins),
		Quarters:        engine.QuarterTrend(records),
		Weekdays:        engine.WeekdayPattern(records),
		DiscountSample:  engine.DiscountSample(records, a.cfg.SampleSize, a.rng()),
		MarginBands:     engine.DiscountMarginBands(records, a.cfg.MarginBands),
	}
}

func (a *Analytics) customers(records []models.Record) CustomersReport {
	return CustomersReport{
		Types:        engine.CustomerTypes(records),
		TopCustomers: engine.TopCustomers(records, a.cfg.TopN),
		OrderCounts:  engine.OrderCountDistribution(records),
		RFM:          engine.RFMRollup(records, rfmHistogramBins),
	}
}

func (a *Analytics) statistics(records []models.Record) StatisticsReport {
	return StatisticsReport{
		YearlyGrowth: engine.YearlyGrowth(records),
		MonthlyYoY:   engine.MonthlyYoY(records),
		Correlation:  engine.Correlation(records),
		CrossTab:     engine.CrossTab(records),
		Categories:   engine.CategoryProfitability(records),
	}
}

// rng returns a fixed-seed source when a seed is configured so the scatter
// sample is stable across requests.
func (a *Analytics) rng() *rand.Rand {
	if seed := uint64(a.cfg.SampleSeed); seed != 0 {
		return rand.New(rand.NewPCG(seed, seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (a *Analytics) Detail(ctx context.Context, sel models.Selection) ([]models.DetailRow, error) {
	records, done, err := a.view(ctx, "detail", sel)
	if err != nil {
		return nil, err
	}
	defer done(nil)
	return engine.Detail(records, a.cfg.DetailRows), nil
}

// Export writes the whole filtered view as CSV to w.
func (a *Analytics) Export(ctx context.Context, w io.Writer, sel models.Selection) (err error) {
	records, done, err := a.view(ctx, "export", sel)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	if err = engine.WriteCSV(w, records); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	a.logger.InfoContext(ctx, "view exported", "records", len(records))
	return nil
}
