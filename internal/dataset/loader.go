package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"superstore-dashboard/internal/config"
	"superstore-dashboard/internal/models"
)

const (
	dateLayout = "1/2/2006"
	batchSize  = 2000
)

var utf8BOM = []byte("\xef\xbb\xbf")

var (
	ErrDatasetNotFound = errors.New("dataset file not found")
	ErrMissingColumns  = errors.New("missing required columns")
	ErrParse           = errors.New("parse dataset")
	ErrNoRecords       = errors.New("no records found")
)

// RequiredColumns are the header names the loader binds.
var RequiredColumns = []string{
	"Order Date", "Ship Date", "Order ID", "Customer ID", "Customer Name",
	"Region", "Category", "Sub-Category", "Product Name", "Segment",
	"Sales", "Quantity", "Discount", "Profit", "Ship Mode",
}

// Dataset is the immutable table produced by a successful load.
type Dataset struct {
	Records  []models.Record
	Options  models.Options
	Source   string
	Encoding string
	LoadedAt time.Time
}

type csvRow struct {
	OrderID      string  `csv:"Order ID"`
	OrderDate    string  `csv:"Order Date"`
	ShipDate     string  `csv:"Ship Date"`
	CustomerID   string  `csv:"Customer ID"`
	CustomerName string  `csv:"Customer Name"`
	Region       string  `csv:"Region"`
	Category     string  `csv:"Category"`
	SubCategory  string  `csv:"Sub-Category"`
	ProductName  string  `csv:"Product Name"`
	Segment      string  `csv:"Segment"`
	Sales        float64 `csv:"Sales"`
	Quantity     int     `csv:"Quantity"`
	Discount     float64 `csv:"Discount"`
	Profit       float64 `csv:"Profit"`
	ShipMode     string  `csv:"Ship Mode"`
}

func (row *csvRow) record() (models.Record, error) {
	orderDate, err := time.Parse(dateLayout, strings.TrimSpace(row.OrderDate))
	if err != nil {
		return models.Record{}, fmt.Errorf("order date %q: %w", row.OrderDate, err)
	}

	shipDate, err := time.Parse(dateLayout, strings.TrimSpace(row.ShipDate))
	if err != nil {
		return models.Record{}, fmt.Errorf("ship date %q: %w", row.ShipDate, err)
	}

	return models.Record{
		OrderID:      row.OrderID,
		OrderDate:    orderDate,
		ShipDate:     shipDate,
		CustomerID:   row.CustomerID,
		CustomerName: row.CustomerName,
		Region:       row.Region,
		Category:     row.Category,
		SubCategory:  row.SubCategory,
		ProductName:  row.ProductName,
		Segment:      row.Segment,
		Sales:        row.Sales,
		Quantity:     row.Quantity,
		Discount:     row.Discount,
		Profit:       row.Profit,
		ShipMode:     row.ShipMode,
	}, nil
}

type Loader struct {
	encoding         string
	fallbackEncoding string
	workers          int
	logger           *slog.Logger
}

func NewLoader(cfg config.DatasetConfig, logger *slog.Logger) *Loader {
	workers := cfg.ParseWorkers
	if workers <= 0 {
		workers = 1
	}
	return &Loader{
		encoding:         cfg.Encoding,
		fallbackEncoding: cfg.FallbackEncoding,
		workers:          workers,
		logger:           logger,
	}
}

// Load reads and parses the dataset at path. Any unreadable row fails the
// whole load; no partial dataset is returned.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	start := time.Now()

	data, encName, err := l.read(path)
	if err != nil {
		return nil, err
	}

	if err := checkHeader(data); err != nil {
		return nil, err
	}

	var rows []*csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	records, err := l.derive(ctx, rows)
	if err != nil {
		return nil, err
	}

	ds := build(records, path)
	ds.Encoding = encName

	l.logger.Info("dataset loaded",
		"path", path,
		"encoding", encName,
		"records", len(records),
		"duration", time.Since(start),
	)
	return ds, nil
}

// read opens path under the primary encoding, then under the fallback one
// when the file is not found.
func (l *Loader) read(path string) ([]byte, string, error) {
	for _, name := range []string{l.encoding, l.fallbackEncoding} {
		enc, err := lookupEncoding(name)
		if err != nil {
			return nil, "", err
		}

		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("dataset not found", "path", path, "encoding", name)
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("open dataset: %w", err)
		}

		raw, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, "", fmt.Errorf("read dataset: %w", err)
		}

		// The BOM has to go before decoding; latin-1 would turn it into text.
		raw = bytes.TrimPrefix(raw, utf8BOM)
		data, _, err := transform.Bytes(enc.NewDecoder(), raw)
		if err != nil {
			return nil, "", fmt.Errorf("decode dataset as %s: %w", name, err)
		}
		return data, name, nil
	}

	return nil, "", fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

func checkHeader(data []byte) error {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err == io.EOF {
		return fmt.Errorf("%w: empty file", ErrParse)
	}
	if err != nil {
		return fmt.Errorf("%w: header: %v", ErrParse, err)
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !slices.Contains(header, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

func (l *Loader) derive(ctx context.Context, rows []*csvRow) ([]models.Record, error) {
	records := make([]models.Record, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				rec, err := rows[i].record()
				if err != nil {
					return fmt.Errorf("%w: row %d: %v", ErrParse, i+1, err)
				}
				records[i] = Derive(rec)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// New wraps already-built records into a Dataset, deriving features and the
// selection options.
func New(records []models.Record, source string) *Dataset {
	derived := make([]models.Record, len(records))
	for i, r := range records {
		derived[i] = Derive(r)
	}
	return build(derived, source)
}

func build(records []models.Record, source string) *Dataset {
	return &Dataset{
		Records:  records,
		Options:  optionsOf(records),
		Source:   source,
		LoadedAt: time.Now(),
	}
}

func optionsOf(records []models.Record) models.Options {
	years := make(map[int]struct{})
	regions := make(map[string]struct{})
	categories := make(map[string]struct{})
	for _, r := range records {
		years[r.Year] = struct{}{}
		regions[r.Region] = struct{}{}
		categories[r.Category] = struct{}{}
	}

	opts := models.Options{
		Years:      make([]int, 0, len(years)),
		Regions:    make([]string, 0, len(regions)),
		Categories: make([]string, 0, len(categories)),
	}
	for y := range years {
		opts.Years = append(opts.Years, y)
	}
	for r := range regions {
		opts.Regions = append(opts.Regions, r)
	}
	for c := range categories {
		opts.Categories = append(opts.Categories, c)
	}
	slices.Sort(opts.Years)
	slices.Sort(opts.Regions)
	slices.Sort(opts.Categories)
	return opts
}
