package http

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
	"expensetracker/internal/report"
	"expensetracker/internal/source"
)

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestParseQuery(t *testing.T) {
	q := url.Values{
		"mode":     {"Manual"},
		"category": {"Food", " Travel", "Food", "", "Rent\x00"},
		"chart":    {"BAR"},
		"upload":   {" abc "},
	}
	vq, err := parseQuery(q)
	require.NoError(t, err)
	assert.Equal(t, source.ModeManual, vq.Mode)
	assert.Equal(t, []string{"Food", " Travel", "Rent"}, vq.Categories)
	assert.Equal(t, chartBar, vq.Chart)
	assert.Equal(t, "abc", vq.Upload)

	// the upload handle is dropped outside upload mode
	assert.Equal(t, "/export.csv?category=Food&category=+Travel&category=Rent&chart=bar&mode=manual", vq.link("/export.csv"))

	vq, err = parseQuery(url.Values{"mode": {"sheets"}})
	assert.ErrorIs(t, err, source.ErrInvalidMode)
	assert.Equal(t, source.ModeUpload, vq.Mode)
	assert.Equal(t, chartPie, vq.Chart)
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Food\tcourt", sanitizeInput("  Food\tcourt\x07 "))
	assert.Equal(t, "", sanitizeInput("\x01\x02"))
}

func TestPieGradient(t *testing.T) {
	assert.Equal(t, emptyChartColor, string(pieGradient(nil, decimal.Zero)))

	parts := []report.Slice{
		{Name: "Food", Amount: decimalOf(t, "1")},
		{Name: "Rent", Amount: decimalOf(t, "2")},
	}
	got := string(pieGradient(parts, decimalOf(t, "3")))
	assert.Equal(t, "conic-gradient(#6366f1 0.00% 33.33%, #f59e0b 33.33% 100.00%)", got)
}

func TestTrendRowsWidths(t *testing.T) {
	rows := trendRows(core.MonthlyTrend{
		{Month: "2024-01", Amount: decimalOf(t, "50")},
		{Month: "2024-02", Amount: decimalOf(t, "200")},
	}, "₹")
	require.Len(t, rows, 2)
	assert.Equal(t, monthView{Month: "2024-01", Amount: "₹50.00", Width: 25}, rows[0])
	assert.Equal(t, 100, rows[1].Width)

	assert.Empty(t, trendRows(report.Build(nil, nil).Trend, "₹"))
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("a"))
	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"))
	assert.True(t, rl.allow("b"), "limits are per client")

	now = now.Add(time.Minute)
	assert.True(t, rl.allow("a"), "a new window resets the count")

	now = now.Add(11 * time.Minute)
	assert.Equal(t, 2, rl.CleanExpired())
}

func TestExtractClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.5")
	assert.Equal(t, "203.0.113.7", extractClientIP(req))

	req.RemoteAddr = "198.51.100.1:1234"
	assert.Equal(t, "198.51.100.1", extractClientIP(req), "untrusted peers cannot spoof")
}

func TestDetectSuspiciousRequest(t *testing.T) {
	assert.True(t, detectSuspiciousRequest(httptest.NewRequest("GET", "/.env", nil)))
	assert.True(t, detectSuspiciousRequest(httptest.NewRequest("GET", "/?category=%3Cscript%3E", nil)))
	assert.False(t, detectSuspiciousRequest(httptest.NewRequest("GET", "/?mode=manual&category=Food", nil)))
}
