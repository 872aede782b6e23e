package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, amt(want).Equal(got), "want %s, got %s", want, got)
}

func sampleTable() Table {
	return Table{
		{Category: "Food", Amount: amt("100"), Date: NewDate(2024, 1, 5)},
		{Category: "Food", Amount: amt("50"), Date: NewDate(2024, 1, 20)},
		{Category: "Travel", Amount: amt("200"), Date: NewDate(2024, 2, 1)},
	}
}

func TestSummaryAndTotal(t *testing.T) {
	tbl := sampleTable()

	summary := SummarizeByCategory(tbl)
	require.Len(t, summary, 2)
	assertAmount(t, "150", summary["Food"])
	assertAmount(t, "200", summary["Travel"])
	assertAmount(t, "350", ComputeTotal(tbl))
}

func TestMonthlyTrend(t *testing.T) {
	trend, err := ComputeMonthlyTrend(sampleTable())
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, "2024-01", trend[0].Month)
	assertAmount(t, "150", trend[0].Amount)
	assert.Equal(t, "2024-02", trend[1].Month)
	assertAmount(t, "200", trend[1].Amount)
}

func TestMonthlyTrendSortsAcrossYears(t *testing.T) {
	tbl := Table{
		{Category: "A", Amount: amt("1"), Date: NewDate(2025, 1, 3)},
		{Category: "A", Amount: amt("2"), Date: NewDate(2023, 12, 31)},
		{Category: "B", Amount: amt("3"), Date: NewDate(2024, 11, 1)},
		{Category: "B", Amount: amt("4"), Date: NewDate(2025, 1, 28)},
	}
	trend, err := ComputeMonthlyTrend(tbl)
	require.NoError(t, err)

	var months []string
	for _, m := range trend {
		months = append(months, m.Month)
	}
	assert.Equal(t, []string{"2023-12", "2024-11", "2025-01"}, months)
	assertAmount(t, "5", trend[2].Amount)
	for i := 1; i < len(trend); i++ {
		assert.Less(t, trend[i-1].Month, trend[i].Month)
	}
}

func TestFilterByCategories(t *testing.T) {
	tbl := sampleTable()

	travel := FilterByCategories(tbl, []string{"Travel"})
	assert.Equal(t, Table{tbl[2]}, travel)
	assertAmount(t, "200", ComputeTotal(travel))

	t.Run("empty selection keeps everything", func(t *testing.T) {
		assert.Equal(t, tbl, FilterByCategories(tbl, nil))
		assert.Equal(t, tbl, FilterByCategories(tbl, []string{}))
	})

	t.Run("unknown category matches nothing", func(t *testing.T) {
		assert.Empty(t, FilterByCategories(tbl, []string{"Rent"}))
	})

	t.Run("case sensitive", func(t *testing.T) {
		assert.Empty(t, FilterByCategories(tbl, []string{"food"}))
	})

	t.Run("subsequence in original order", func(t *testing.T) {
		mixed := Table{
			{Category: "B", Amount: amt("1"), Date: NewDate(2024, 1, 1)},
			{Category: "A", Amount: amt("2"), Date: NewDate(2024, 1, 2)},
			{Category: "C", Amount: amt("3"), Date: NewDate(2024, 1, 3)},
			{Category: "A", Amount: amt("4"), Date: NewDate(2024, 1, 4)},
		}
		got := FilterByCategories(mixed, []string{"C", "A"})
		assert.Equal(t, Table{mixed[1], mixed[2], mixed[3]}, got)
	})
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	tbl := sampleTable()
	out := FilterByCategories(tbl, nil)
	out[0].Category = "Changed"
	assert.Equal(t, "Food", tbl[0].Category)
}

func TestEmptyTable(t *testing.T) {
	var tbl Table

	assert.Empty(t, SummarizeByCategory(tbl))
	assert.True(t, ComputeTotal(tbl).IsZero())

	trend, err := ComputeMonthlyTrend(tbl)
	require.NoError(t, err)
	assert.Empty(t, trend)

	assert.Empty(t, ToExportRows(tbl))
	assert.Empty(t, Categories(tbl))
}

func TestInvalidDateOnlyBreaksTrend(t *testing.T) {
	tbl := append(sampleTable(), Record{Category: "Gifts", Amount: amt("25"), Date: RawDate("someday")})

	_, err := ComputeMonthlyTrend(tbl)
	var dateErr *InvalidDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, 3, dateErr.Index)
	assert.Equal(t, "someday", dateErr.Value)
	assert.ErrorIs(t, err, ErrInvalidDate)

	summary := SummarizeByCategory(tbl)
	assertAmount(t, "25", summary["Gifts"])
	assertAmount(t, "375", ComputeTotal(tbl))
}

func TestMissingDateBreaksTrend(t *testing.T) {
	tbl := Table{{Category: "Food", Amount: amt("1")}}
	_, err := ComputeMonthlyTrend(tbl)
	var dateErr *InvalidDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Empty(t, dateErr.Value)
}

func TestSummaryTotalMatchesComputeTotal(t *testing.T) {
	tables := []Table{
		nil,
		sampleTable(),
		{
			{Category: "x", Amount: amt("0.1")},
			{Category: "x", Amount: amt("0.2")},
			{Category: "X", Amount: amt("0.3")},
			{Category: "x ", Amount: amt("1e2")},
			{Category: "y", Amount: amt("0")},
		},
	}
	for i, tbl := range tables {
		summary := SummarizeByCategory(tbl)
		var perCategory decimal.Decimal
		for cat := range summary {
			perCategory = perCategory.Add(ComputeTotal(FilterByCategories(tbl, []string{cat})))
		}
		assert.True(t, ComputeTotal(tbl).Equal(perCategory), "table %d", i)
		assert.True(t, ComputeTotal(tbl).Equal(summary.Total()), "table %d", i)
	}
}

func TestDuplicatesCountIndependently(t *testing.T) {
	rec := Record{Category: "Food", Amount: amt("10"), Date: NewDate(2024, 3, 3)}
	tbl := Table{rec, rec, rec}
	assertAmount(t, "30", SummarizeByCategory(tbl)["Food"])
}

func TestAggregationIsIdempotent(t *testing.T) {
	tbl := sampleTable()
	before := append(Table(nil), tbl...)

	assert.Equal(t, SummarizeByCategory(tbl), SummarizeByCategory(tbl))
	assert.Equal(t, ComputeTotal(tbl), ComputeTotal(tbl))
	first, err1 := ComputeMonthlyTrend(tbl)
	second, err2 := ComputeMonthlyTrend(tbl)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
	assert.Equal(t, ToExportRows(tbl), ToExportRows(tbl))

	assert.Equal(t, before, tbl)
}

func TestToExportRows(t *testing.T) {
	tbl := append(sampleTable(), Record{Category: "Misc", Amount: amt("1.50"), Date: RawDate("n/a")})
	rows := ToExportRows(tbl)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Food", "100", "2024-01-05"}, rows[0].Strings())
	assert.Equal(t, []string{"Travel", "200", "2024-02-01"}, rows[2].Strings())
	assert.Equal(t, []string{"Misc", "1.5", "n/a"}, rows[3].Strings())
}

func TestCategoriesFirstSeenOrder(t *testing.T) {
	tbl := Table{{Category: "b"}, {Category: "a"}, {Category: "b"}, {Category: "c"}}
	assert.Equal(t, []string{"b", "a", "c"}, Categories(tbl))
}

func TestSortedSummary(t *testing.T) {
	sorted := SummarizeByCategory(sampleTable()).Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "Food", sorted[0].Name)
	assert.Equal(t, "Travel", sorted[1].Name)
}
