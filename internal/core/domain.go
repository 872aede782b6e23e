package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical textual form of a Date.
const DateLayout = "2006-01-02"

// MonthLayout is the textual form of a month-key.
const MonthLayout = "2006-01"

type (
	// Date is a calendar date without time component. A Date built from text
	// that could not be parsed keeps the original text and reports !Valid().
	Date struct {
		time.Time
		raw   string
		valid bool
	}

	// Record is one expense entry.
	Record struct {
		Category string
		Amount   decimal.Decimal
		Date     Date
	}

	// Table is an ordered sequence of records. Order is kept for display only.
	Table []Record
)

var (
	ErrEmptyCategory  = errors.New("empty category")
	ErrNegativeAmount = errors.New("negative amount")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")

	// ErrEmptyInput is informational: no data source is active or the active
	// one holds no records. Aggregations over empty input still succeed.
	ErrEmptyInput = errors.New("no expense data")
)

// accepted input layouts, tried in order
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// InvalidDateError reports a record whose date is missing or unparseable.
type InvalidDateError struct {
	Index int    // position of the record in the table
	Value string // original text, empty when the date is missing
}

func (e *InvalidDateError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("record %d: missing date", e.Index)
	}
	return fmt.Sprintf("record %d: invalid date %q", e.Index, e.Value)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), valid: true}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses s using the accepted layouts, dropping any time component.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// RawDate is the lenient form of ParseDate: text that cannot be parsed is
// kept as is and the returned Date is not Valid.
func RawDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		return Date{raw: strings.TrimSpace(s)}
	}
	return d
}

// Valid reports whether the date holds a usable calendar day. The zero Date
// is not valid, but 0001-01-01 built through NewDate or ParseDate is.
func (d Date) Valid() bool {
	return d.valid
}

// Raw returns the original text of an unparseable date.
func (d Date) Raw() string {
	return d.raw
}

// String returns YYYY-MM-DD for valid dates, the original text otherwise.
func (d Date) String() string {
	if d.Valid() {
		return d.Format(DateLayout)
	}
	return d.raw
}

// MonthKey returns the YYYY-MM bucket of the date.
func (d Date) MonthKey() (string, error) {
	if !d.Valid() {
		return "", ErrInvalidDate
	}
	return d.Format(MonthLayout), nil
}

// Validate checks the boundary rules for a record. The date is not checked
// here: a record with a bad date is still counted by totals and summaries.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
