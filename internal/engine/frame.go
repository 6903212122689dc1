package engine

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"

	"superstore-dashboard/internal/models"
)

// ExportColumns is the column order of the CSV export.
var ExportColumns = []string{
	"Order Date", "Order ID", "Customer Name", "Region", "Category", "Product Name",
	"Sales", "Profit", "Discount", "Quantity", "Profit Margin",
}

// Frame loads records into a DataFrame with ExportColumns.
func Frame(records []models.Record) dataframe.DataFrame {
	rows := make([]models.DetailRow, len(records))
	for i, r := range records {
		rows[i] = detailRow(r)
	}
	return dataframe.LoadStructs(rows)
}

// WriteCSV writes records as CSV. An empty view produces the header only.
func WriteCSV(w io.Writer, records []models.Record) error {
	if len(records) == 0 {
		cw := csv.NewWriter(w)
		if err := cw.Write(ExportColumns); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}

	df := Frame(records)
	if df.Err != nil {
		return fmt.Errorf("build export frame: %w", df.Err)
	}
	return df.WriteCSV(w)
}
