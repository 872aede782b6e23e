package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/export"
	applog "expensetracker/internal/log"
	"expensetracker/internal/report"
	"expensetracker/internal/source"
)

func buildReport(t core.Table, vq viewQuery) report.Report {
	return report.Build(t, vq.Categories)
}

// loadReport parses the request query, builds the table and aggregates it.
// On failure the returned builder carries the error response.
func (s *Server) loadReport(r *http.Request) (report.Report, viewQuery, *ResponseBuilder) {
	vq, err := parseQuery(r.URL.Query())
	if err != nil {
		return report.Report{}, vq, BadRequestError(err.Error())
	}
	ctx := r.Context()
	logger := applog.FromContext(ctx)
	table, err := s.selector.Table(ctx, vq.Mode, vq.Upload)
	if errors.Is(err, source.ErrUploadNotFound) {
		return report.Report{}, vq, NotFoundError(err.Error())
	}
	if err != nil {
		logger.ErrorContext(ctx, "Build table error",
			append(applog.NewFields().WithError(err).ToSlice(), applog.FieldMode, vq.Mode.String())...)
		return report.Report{}, vq, InternalServerError("could not load expenses")
	}
	logger.DebugContext(ctx, "Report requested",
		applog.FieldMode, vq.Mode.String(),
		applog.FieldRecords, len(table),
		applog.FieldCategories, vq.Categories)
	return buildReport(table, vq), vq, nil
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.writeExport(w, r, "csv", func(buf *bytes.Buffer, rep report.Report) error {
		return export.WriteCSV(buf, core.ToExportRows(rep.Rows))
	})
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.writeExport(w, r, "xlsx", func(buf *bytes.Buffer, rep report.Report) error {
		return export.WriteXLSX(buf, core.ToExportRows(rep.Rows), rep.Summary())
	})
}

// writeExport renders the filtered rows into a buffer so a serializer failure
// can still be reported with a proper status.
func (s *Server) writeExport(w http.ResponseWriter, r *http.Request, format string, encode func(*bytes.Buffer, report.Report) error) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentExport)

	rep, _, resp := s.loadReport(r)
	if resp != nil {
		resp.Write(w)
		return
	}

	var buf bytes.Buffer
	if err := encode(&buf, rep); err != nil {
		logger.ErrorContext(ctx, "Export failed", applog.FieldFormat, format, applog.FieldError, err)
		InternalServerError("export failed").Write(w)
		return
	}

	name, contentType := export.CSVFileName, export.CSVContentType
	if format == "xlsx" {
		name, contentType = export.XLSXFileName, export.XLSXContentType
	}
	logger.InfoContext(ctx, "Export generated", applog.FieldFormat, format, applog.FieldRecords, len(rep.Rows))
	NewResponse().Attachment(name, contentType).Body(buf.Bytes()).Write(w)
}

type categoryJSON struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Percent int             `json:"percent"`
}

type monthJSON struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type rowJSON struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
}

type reportJSON struct {
	Mode       string          `json:"mode"`
	Categories []string        `json:"categories"`
	Selected   []string        `json:"selected"`
	Total      decimal.Decimal `json:"total"`
	Summary    []categoryJSON  `json:"summary"`
	Trend      []monthJSON     `json:"trend"`
	TrendError string          `json:"trend_error,omitempty"`
	Warning    string          `json:"warning,omitempty"`
	Rows       []rowJSON       `json:"rows"`
}

func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	rep, vq, resp := s.loadReport(r)
	if resp != nil {
		resp.Write(w)
		return
	}

	out := reportJSON{
		Mode:       vq.Mode.String(),
		Categories: nonNil(rep.Categories),
		Selected:   nonNil(vq.Categories),
		Total:      rep.Total,
		Summary:    make([]categoryJSON, 0, len(rep.Slices)),
		Trend:      make([]monthJSON, 0, len(rep.Trend)),
		Rows:       make([]rowJSON, 0, len(rep.Rows)),
	}
	for _, sl := range rep.Slices {
		out.Summary = append(out.Summary, categoryJSON{Name: sl.Name, Amount: sl.Amount, Percent: sl.Percent})
	}
	if rep.TrendErr != nil {
		out.TrendError = rep.TrendErr.Error()
	}
	for _, m := range rep.Trend {
		out.Trend = append(out.Trend, monthJSON{Month: m.Month, Amount: m.Amount})
	}
	if rep.Warning != nil {
		out.Warning = rep.Warning.Error()
	}
	for _, row := range core.ToExportRows(rep.Rows) {
		out.Rows = append(out.Rows, rowJSON{Category: row.Category, Amount: row.Amount, Date: row.Date})
	}

	NewResponse().JSON(out).Write(w)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
