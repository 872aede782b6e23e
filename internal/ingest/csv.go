// Package ingest turns uploaded tabular files into a typed core.Table.
//
// Rows are validated here, at the boundary, so the aggregation code only ever
// sees well-formed records. Dates are the exception: text that cannot be read
// as a date is kept on the record and surfaces later as core.InvalidDateError
// from the monthly trend.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"expensetracker/internal/core"
)

// Required column names.
const (
	ColumnCategory = "Category"
	ColumnAmount   = "Amount"
	ColumnDate     = "Date"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrNoHeader      = errors.New("missing header row")
)

// ParseError describes a row that failed boundary validation.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type columns struct {
	category, amount, date int
}

// ReadCSV reads a CSV document whose header contains at least the Category,
// Amount and Date columns. Header names are matched ignoring case and
// surrounding spaces; other columns are ignored.
func ReadCSV(r io.Reader) (core.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var table core.Table
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if blank(fields) {
			continue
		}
		rec, err := parseRow(fields, cols, line)
		if err != nil {
			return nil, err
		}
		table = append(table, rec)
	}
	return table, nil
}

func locateColumns(header []string) (columns, error) {
	cols := columns{category: -1, amount: -1, date: -1}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		switch {
		case strings.EqualFold(name, ColumnCategory) && cols.category < 0:
			cols.category = i
		case strings.EqualFold(name, ColumnAmount) && cols.amount < 0:
			cols.amount = i
		case strings.EqualFold(name, ColumnDate) && cols.date < 0:
			cols.date = i
		}
	}
	switch {
	case cols.category < 0:
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnCategory)
	case cols.amount < 0:
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnAmount)
	case cols.date < 0:
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnDate)
	}
	return cols, nil
}

func parseRow(fields []string, cols columns, line int) (core.Record, error) {
	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	amount, err := core.ParseAmount(field(cols.amount))
	if err != nil {
		return core.Record{}, &ParseError{Line: line, Column: ColumnAmount, Err: err}
	}
	rec := core.Record{
		Category: field(cols.category),
		Amount:   amount,
		Date:     core.RawDate(field(cols.date)),
	}
	if err := rec.Validate(); err != nil {
		return core.Record{}, &ParseError{Line: line, Column: ColumnCategory, Err: err}
	}
	return rec, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
