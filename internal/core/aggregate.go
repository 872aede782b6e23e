package core

import (
	"slices"

	"github.com/shopspring/decimal"
)

// FilterByCategories returns the records whose category is in selected, in
// their original order. An empty selection means no filter: the whole table
// is returned. The result never aliases t.
func FilterByCategories(t Table, selected []string) Table {
	if len(selected) == 0 {
		return slices.Clone(t)
	}
	set := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		set[c] = struct{}{}
	}
	out := make(Table, 0, len(t))
	for _, rec := range t {
		if _, ok := set[rec.Category]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// SummarizeByCategory sums amounts per exact category label.
func SummarizeByCategory(t Table) CategorySummary {
	out := make(CategorySummary)
	for _, rec := range t {
		out[rec.Category] = out[rec.Category].Add(rec.Amount)
	}
	return out
}

// ComputeTotal sums every amount of t; zero for an empty table.
func ComputeTotal(t Table) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range t {
		total = total.Add(rec.Amount)
	}
	return total
}

// ComputeMonthlyTrend sums amounts per YYYY-MM bucket, ascending by month.
// It fails with *InvalidDateError on the first record whose date is missing
// or unparseable; records are never skipped or repaired.
func ComputeMonthlyTrend(t Table) (MonthlyTrend, error) {
	sums := make(map[string]decimal.Decimal)
	for i, rec := range t {
		key, err := rec.Date.MonthKey()
		if err != nil {
			return nil, &InvalidDateError{Index: i, Value: rec.Date.Raw()}
		}
		sums[key] = sums[key].Add(rec.Amount)
	}

	months := make([]string, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	slices.Sort(months)

	out := make(MonthlyTrend, 0, len(months))
	for _, m := range months {
		out = append(out, MonthAmount{Month: m, Amount: sums[m]})
	}
	return out, nil
}

// ToExportRows projects t into flat rows, preserving order.
func ToExportRows(t Table) []ExportRow {
	out := make([]ExportRow, 0, len(t))
	for _, rec := range t {
		out = append(out, ExportRow{
			Category: rec.Category,
			Amount:   rec.Amount,
			Date:     rec.Date.String(),
		})
	}
	return out
}

// Categories lists the distinct categories of t in first-seen order.
func Categories(t Table) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range t {
		if _, ok := seen[rec.Category]; ok {
			continue
		}
		seen[rec.Category] = struct{}{}
		out = append(out, rec.Category)
	}
	return out
}
