// Package report composes the aggregation functions into the view model a
// page render needs: build the table, aggregate it, hand the result over.
package report

import (
	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// Slice is one category of the summary, with its share of the total and its
// width relative to the largest category, both in percent.
type Slice struct {
	Name    string
	Amount  decimal.Decimal
	Percent int
	Width   int
}

// Report is everything derived from one table and one category selection.
type Report struct {
	Categories []string
	Selected   []string
	Rows       core.Table
	Slices     []Slice
	Total      decimal.Decimal
	Trend      core.MonthlyTrend

	// TrendErr is set when the trend could not be computed, typically a
	// *core.InvalidDateError; the rest of the report is still valid.
	TrendErr error

	// Warning is core.ErrEmptyInput when there is nothing to aggregate.
	Warning error
}

// Empty reports whether the source table had no records.
func (r Report) Empty() bool {
	return len(r.Categories) == 0
}

// Build filters t by selected and aggregates the result.
func Build(t core.Table, selected []string) Report {
	rep := Report{
		Categories: core.Categories(t),
		Selected:   selected,
		Total:      decimal.Zero,
	}
	if len(t) == 0 {
		rep.Warning = core.ErrEmptyInput
		rep.Trend = core.MonthlyTrend{}
		return rep
	}

	rep.Rows = core.FilterByCategories(t, selected)
	summary := core.SummarizeByCategory(rep.Rows)
	rep.Total = core.ComputeTotal(rep.Rows)
	rep.Slices = buildSlices(summary, rep.Total)
	rep.Trend, rep.TrendErr = core.ComputeMonthlyTrend(rep.Rows)
	return rep
}

// Summary rebuilds the category summary from the report slices.
func (r Report) Summary() core.CategorySummary {
	out := make(core.CategorySummary, len(r.Slices))
	for _, s := range r.Slices {
		out[s.Name] = s.Amount
	}
	return out
}

func buildSlices(summary core.CategorySummary, total decimal.Decimal) []Slice {
	sorted := summary.Sorted()
	maxAmount := decimal.Zero
	for _, c := range sorted {
		if c.Amount.GreaterThan(maxAmount) {
			maxAmount = c.Amount
		}
	}

	out := make([]Slice, 0, len(sorted))
	hundred := decimal.NewFromInt(100)
	for _, c := range sorted {
		s := Slice{Name: c.Name, Amount: c.Amount}
		if total.IsPositive() {
			s.Percent = int(c.Amount.Mul(hundred).Div(total).Round(0).IntPart())
		}
		if maxAmount.IsPositive() && c.Amount.IsPositive() {
			s.Width = int(c.Amount.Mul(hundred).Div(maxAmount).Round(0).IntPart())
			// keep very small categories visible
			if s.Width < 2 {
				s.Width = 2
			}
		}
		out = append(out, s)
	}
	return out
}
