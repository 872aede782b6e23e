package http

import (
	"html/template"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/report"
)

// palette colors chart slices in order, wrapping around.
var palette = []string{
	"#6366f1", "#f59e0b", "#10b981", "#ef4444", "#3b82f6",
	"#ec4899", "#14b8a6", "#a855f7", "#84cc16", "#f97316",
}

const emptyChartColor = "#e5e7eb"

type rowView struct {
	Category, Amount, Date string
}

type categoryOption struct {
	Name     string
	Selected bool
}

type sliceView struct {
	Name    string
	Amount  string
	Percent int
	Width   int
	Color   template.CSS
}

type monthView struct {
	Month  string
	Amount string
	Width  int
}

// indexPage is the data rendered by index.html.
type indexPage struct {
	Mode        string
	Upload      string
	Error       string
	Notice      string
	Suggestions []string
	Today       string
	ManualCount int

	HasData     bool
	AllRows     []rowView
	Categories  []categoryOption
	Chart       string
	Total       string
	PieGradient template.CSS
	Slices      []sliceView
	TrendError  string
	Trend       []monthView
	ExportCSV   template.URL
	ExportXLSX  template.URL
}

// fillReport copies the report into the page, formatting amounts with the
// configured currency symbol.
func (s *Server) fillReport(p *indexPage, all core.Table, rep report.Report, vq viewQuery) {
	if rep.Empty() {
		return
	}
	p.HasData = true

	p.AllRows = make([]rowView, 0, len(all))
	for _, r := range all {
		p.AllRows = append(p.AllRows, rowView{
			Category: r.Category,
			Amount:   core.FormatAmount(r.Amount, s.currency),
			Date:     r.Date.String(),
		})
	}

	for _, name := range rep.Categories {
		p.Categories = append(p.Categories, categoryOption{
			Name:     name,
			Selected: slices.Contains(rep.Selected, name),
		})
	}

	p.Total = core.FormatAmount(rep.Total, s.currency)
	for i, sl := range rep.Slices {
		p.Slices = append(p.Slices, sliceView{
			Name:    sl.Name,
			Amount:  core.FormatAmount(sl.Amount, s.currency),
			Percent: sl.Percent,
			Width:   sl.Width,
			Color:   template.CSS(palette[i%len(palette)]),
		})
	}
	p.PieGradient = pieGradient(rep.Slices, rep.Total)

	if rep.TrendErr != nil {
		p.TrendError = "Error processing monthly trend: " + rep.TrendErr.Error()
	} else {
		p.Trend = trendRows(rep.Trend, s.currency)
	}

	p.ExportCSV = template.URL(vq.link("/export.csv"))
	p.ExportXLSX = template.URL(vq.link("/export.xlsx"))
}

// pieGradient renders the slices as a CSS conic-gradient. Boundaries are
// accumulated exactly so the last slice always closes at 100%.
func pieGradient(parts []report.Slice, total decimal.Decimal) template.CSS {
	if !total.IsPositive() {
		return template.CSS(emptyChartColor)
	}
	hundred := decimal.NewFromInt(100)
	from := decimal.Zero
	stops := make([]string, 0, len(parts))
	for i, sl := range parts {
		to := from.Add(sl.Amount.Mul(hundred).Div(total))
		if i == len(parts)-1 {
			to = hundred
		}
		stops = append(stops, palette[i%len(palette)]+" "+from.StringFixed(2)+"% "+to.StringFixed(2)+"%")
		from = to
	}
	return template.CSS("conic-gradient(" + strings.Join(stops, ", ") + ")")
}

func trendRows(trend core.MonthlyTrend, symbol string) []monthView {
	maxAmount := decimal.Zero
	for _, m := range trend {
		if m.Amount.GreaterThan(maxAmount) {
			maxAmount = m.Amount
		}
	}
	hundred := decimal.NewFromInt(100)
	out := make([]monthView, 0, len(trend))
	for _, m := range trend {
		mv := monthView{Month: m.Month, Amount: core.FormatAmount(m.Amount, symbol)}
		if maxAmount.IsPositive() {
			mv.Width = int(m.Amount.Mul(hundred).Div(maxAmount).Round(0).IntPart())
		}
		out = append(out, mv)
	}
	return out
}
