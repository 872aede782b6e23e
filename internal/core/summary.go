package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategorySummary maps a category label to the summed amount of its records.
type CategorySummary map[string]decimal.Decimal

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthAmount is the summed amount of one YYYY-MM bucket.
type MonthAmount struct {
	Month  string
	Amount decimal.Decimal
}

// MonthlyTrend is ordered ascending by month with unique months.
type MonthlyTrend []MonthAmount

// ExportRow is the flat projection of a record used by serializers.
type ExportRow struct {
	Category string
	Amount   decimal.Decimal
	Date     string
}

// ExportHeader names the columns of an ExportRow, in order.
var ExportHeader = []string{"Category", "Amount", "Date"}

// Strings returns the row as text cells matching ExportHeader.
func (r ExportRow) Strings() []string {
	return []string{r.Category, r.Amount.String(), r.Date}
}

// Sorted returns the summary ordered by category name.
func (s CategorySummary) Sorted() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(s))
	for name, amount := range s {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Total sums every category of the summary.
func (s CategorySummary) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range s {
		total = total.Add(amount)
	}
	return total
}
