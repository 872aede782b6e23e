// Package export serializes filtered expense rows for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"expensetracker/internal/core"
)

// Download file names offered to the browser.
const (
	CSVFileName  = "filtered_expense_data.csv"
	XLSXFileName = "filtered_expense_data.xlsx"
)

// Content types of the generated documents.
const (
	CSVContentType  = "text/csv; charset=utf-8"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteCSV writes a header row followed by one line per row, comma separated.
func WriteCSV(w io.Writer, rows []core.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.ExportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row.Strings()); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
