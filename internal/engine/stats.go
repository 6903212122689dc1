package engine

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"superstore-dashboard/internal/models"
)

// CorrelationFields are the numeric features of the correlation matrix, in
// matrix order.
var CorrelationFields = []string{"sales", "profit", "quantity", "discount", "profit_margin", "shipping_days"}

// FeatureFrame loads the numeric features of records into a DataFrame with
// one float column per CorrelationFields entry.
func FeatureFrame(records []models.Record) dataframe.DataFrame {
	cols := make([][]float64, len(CorrelationFields))
	for i := range cols {
		cols[i] = make([]float64, len(records))
	}
	for j, r := range records {
		cols[0][j] = r.Sales
		cols[1][j] = r.Profit
		cols[2][j] = float64(r.Quantity)
		cols[3][j] = r.Discount
		cols[4][j] = r.ProfitMargin
		cols[5][j] = float64(r.ShippingDays)
	}

	ss := make([]series.Series, len(cols))
	for i, name := range CorrelationFields {
		ss[i] = series.New(cols[i], series.Float, name)
	}
	return dataframe.New(ss...)
}

// Correlation computes the pairwise Pearson correlation of CorrelationFields.
// Pairs involving a constant column, and every pair when fewer than two
// records are present, are reported as 0.
func Correlation(records []models.Record) models.CorrelationMatrix {
	n := len(CorrelationFields)
	m := models.CorrelationMatrix{
		Fields: append([]string(nil), CorrelationFields...),
		Values: make([][]float64, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	if len(records) < 2 {
		return m
	}

	df := FeatureFrame(records)
	data := make([][]float64, n)
	means := make([]float64, n)
	sds := make([]float64, n)
	constant := make([]bool, n)
	for i, name := range CorrelationFields {
		col := df.Col(name)
		data[i] = col.Float()
		means[i] = col.Mean()
		sds[i] = col.StdDev()
		constant[i] = slices.Min(data[i]) == slices.Max(data[i])
	}

	denom := float64(len(records) - 1)
	for i := 0; i < n; i++ {
		if constant[i] {
			continue
		}
		m.Values[i][i] = 1
		for j := i + 1; j < n; j++ {
			if constant[j] {
				continue
			}
			var cov float64
			for k := range data[i] {
				cov += (data[i][k] - means[i]) * (data[j][k] - means[j])
			}
			cov /= denom
			r := safeDiv(cov, sds[i]*sds[j])
			r = math.Max(-1, math.Min(1, r))
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// CrossTab reports sales and profit statistics per (region, category) pair,
// ordered by region then category.
func CrossTab(records []models.Record) []models.CrossTabCell {
	type key struct{ region, category string }
	cells := make(map[key]*models.CrossTabCell)
	for _, r := range records {
		k := key{r.Region, r.Category}
		c := cells[k]
		if c == nil {
			c = &models.CrossTabCell{Region: r.Region, Category: r.Category}
			cells[k] = c
		}
		c.SalesSum += r.Sales
		c.ProfitSum += r.Profit
		c.Quantity += r.Quantity
		c.Count++
	}

	out := make([]models.CrossTabCell, 0, len(cells))
	for _, c := range cells {
		c.SalesMean = safeDiv(c.SalesSum, float64(c.Count))
		c.ProfitMean = safeDiv(c.ProfitSum, float64(c.Count))
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b models.CrossTabCell) int {
		if c := cmp.Compare(a.Region, b.Region); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}
