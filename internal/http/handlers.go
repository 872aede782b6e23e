package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/ingest"
	applog "expensetracker/internal/log"
	"expensetracker/internal/source"
)

// notices shown after a redirect, keyed by the notice query parameter
var notices = map[string]string{
	"uploaded": "File uploaded successfully.",
	"added":    "Expense added successfully.",
	"cleared":  "All manual entries cleared.",
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	vq, err := parseQuery(r.URL.Query())
	msg := ""
	if err != nil {
		msg = "Unknown input mode, showing uploads."
	}
	s.renderIndex(w, r, http.StatusOK, vq, msg)
}

// renderIndex builds the table for vq, aggregates it and renders the page.
// errMsg is shown above the report; the page is still rendered with status.
func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, vq viewQuery, errMsg string) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)
	if s.templates == nil {
		logger.ErrorContext(ctx, "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	page := indexPage{
		Mode:        vq.Mode.String(),
		Upload:      vq.Upload,
		Error:       errMsg,
		Notice:      notices[r.URL.Query().Get("notice")],
		Suggestions: s.store.Suggestions(ctx),
		Today:       s.now().Format(core.DateLayout),
		ManualCount: s.store.Len(),
		Chart:       vq.Chart,
	}

	table, err := s.selector.Table(ctx, vq.Mode, vq.Upload)
	if err != nil {
		logger.WarnContext(ctx, "Expense table unavailable", applog.FieldMode, vq.Mode, applog.FieldError, err)
		if page.Error == "" {
			page.Error = "The uploaded file is no longer available. Please upload it again."
		}
		page.Upload = ""
		page.Notice = ""
		vq.Upload = ""
	}

	rep := buildReport(table, vq)
	if rep.Warning != nil {
		logger.DebugContext(ctx, "Nothing to aggregate", applog.FieldMode, vq.Mode)
	}
	s.fillReport(&page, table, rep, vq)

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		logger.ErrorContext(ctx, "Index template execution failed", applog.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentIngest)
	vq := viewQuery{Mode: source.ModeUpload, Chart: chartPie}

	if r.ContentLength > s.maxUpload {
		s.renderIndex(w, r, http.StatusRequestEntityTooLarge, vq, "The file is too large.")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.renderIndex(w, r, http.StatusRequestEntityTooLarge, vq, "The file is too large.")
			return
		}
		logger.WarnContext(ctx, "Parse multipart form error", applog.FieldError, err)
		s.renderIndex(w, r, http.StatusBadRequest, vq, "Invalid upload request.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.renderIndex(w, r, http.StatusBadRequest, vq, "Please choose a CSV file to upload.")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		s.renderIndex(w, r, http.StatusBadRequest, vq, "Only CSV files are supported.")
		return
	}

	table, err := ingest.ReadCSV(file)
	if err != nil {
		logger.WarnContext(ctx, "Upload rejected", applog.FieldError, err)
		status := http.StatusBadRequest
		var perr *ingest.ParseError
		if errors.As(err, &perr) {
			status = http.StatusUnprocessableEntity
		}
		s.renderIndex(w, r, status, vq, "Could not read the file: "+err.Error())
		return
	}

	handle := s.uploads.Put(table)
	logger.InfoContext(ctx, "Upload parsed", applog.FieldUpload, handle, applog.FieldRecords, len(table))

	v := url.Values{}
	v.Set("mode", source.ModeUpload.String())
	v.Set("upload", handle)
	v.Set("notice", "uploaded")
	http.Redirect(w, r, "/?"+v.Encode(), http.StatusSeeOther)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentExpense)
	vq := viewQuery{Mode: source.ModeManual, Chart: chartPie}

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Parse form error", applog.FieldError, err)
		s.renderIndex(w, r, http.StatusBadRequest, vq, "Invalid request format.")
		return
	}

	amount, err := core.ParseAmount(r.PostForm.Get("amount"))
	if err != nil {
		s.renderIndex(w, r, http.StatusUnprocessableEntity, vq, "Invalid amount: "+err.Error())
		return
	}

	date := core.DateOf(s.now())
	if v := strings.TrimSpace(r.PostForm.Get("date")); v != "" {
		if date, err = core.ParseDate(v); err != nil {
			s.renderIndex(w, r, http.StatusUnprocessableEntity, vq, "Invalid date: "+v)
			return
		}
	}

	rec := core.Record{
		Category: sanitizeInput(r.PostForm.Get("category")),
		Amount:   amount,
		Date:     date,
	}
	ref, err := s.store.Append(ctx, rec)
	switch {
	case errors.Is(err, core.ErrEmptyCategory), errors.Is(err, core.ErrNegativeAmount), errors.Is(err, core.ErrInvalidDate):
		s.renderIndex(w, r, http.StatusUnprocessableEntity, vq, "Invalid expense: "+err.Error())
		return
	case err != nil:
		logger.ErrorContext(ctx, "Expense append error", applog.FieldError, err)
		s.renderIndex(w, r, http.StatusInternalServerError, vq, "Could not save the expense.")
		return
	}

	logger.InfoContext(ctx, "Expense added",
		append([]any{"ref", ref}, applog.NewFields().WithRecord(rec.Category, rec.Amount.String()).ToSlice()...)...)
	http.Redirect(w, r, "/?mode=manual&notice=added", http.StatusSeeOther)
}

func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n := s.store.Clear(ctx)
	applog.FromContext(ctx).WithComponent(applog.ComponentExpense).
		InfoContext(ctx, "Manual entries cleared", applog.FieldRecords, n)
	http.Redirect(w, r, "/?mode=manual&notice=cleared", http.StatusSeeOther)
}
