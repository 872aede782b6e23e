// Package http serves the expense tracker web interface: the report page,
// the upload and manual-entry forms, the filtered downloads and a JSON view
// of the report.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"expensetracker/internal/cache"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/source"
	appweb "expensetracker/web"
)

// ExpenseStore is the manual-entry store the server writes to and reads from.
type ExpenseStore interface {
	Append(ctx context.Context, r core.Record) (string, error)
	Clear(ctx context.Context) int
	Len() int
	Table(ctx context.Context) core.Table
	Suggestions(ctx context.Context) []string
}

// Options configures a Server.
type Options struct {
	Addr               string
	CurrencySymbol     string
	MaxUploadBytes     int64
	RateLimitPerMinute int
	Logger             *applog.Logger

	// Sweeper, when set, periodically drops idle rate-limit entries.
	Sweeper *cache.Manager

	// Now overrides the clock used for the manual-entry date default.
	Now func() time.Time
}

type Server struct {
	http.Server
	templates   *template.Template
	store       ExpenseStore
	uploads     *source.Uploads
	selector    *source.Selector
	rateLimiter *rateLimiter

	currency  string
	maxUpload int64
	now       func() time.Time
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(opts Options, store ExpenseStore, uploads *source.Uploads) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 5 << 20
	}

	s := &Server{
		store:       store,
		uploads:     uploads,
		selector:    &source.Selector{Uploads: uploads, Manual: store},
		rateLimiter: newRateLimiter(opts.RateLimitPerMinute),
		currency:    opts.CurrencySymbol,
		maxUpload:   opts.MaxUploadBytes,
		now:         opts.Now,
	}
	if opts.Sweeper != nil {
		opts.Sweeper.Register("rate_limit", s.rateLimiter)
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(applog.Middleware(logger, func(r *http.Request) []any {
		return []any{
			applog.FieldRequestID, middleware.GetReqID(r.Context()),
			applog.FieldClientIP, extractClientIP(r),
		}
	}))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		})
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.withSecurityHeaders)

		r.Get("/", s.handleIndex)
		r.Post("/upload", s.handleUpload)
		r.Post("/expenses", s.handleCreateExpense)
		r.Post("/expenses/clear", s.handleClearExpenses)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.xlsx", s.handleExportXLSX)
		r.Get("/api/report", s.handleReportJSON)
	})

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		clientIP := extractClientIP(r)
		logger := applog.FromContext(ctx)

		logger.DebugContext(ctx, "Request started",
			applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.Header.Get("User-Agent")).ToSlice()...)

		if detectSuspiciousRequest(r) {
			logger.WarnContext(ctx, "Suspicious request", applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
		}

		// Apply rate limiting to POST requests (uploads and manual entries)
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded", applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.InfoContext(ctx, "Request completed",
			applog.NewFields().
				WithHTTPRequest(r.Method, r.URL.Path, r.Header.Get("User-Agent")).
				WithHTTPResponse(status, time.Since(start).Milliseconds()).
				ToSlice()...)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
