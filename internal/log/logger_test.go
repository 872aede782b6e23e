package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	logger.WithComponent(ComponentIngest).Info("Upload parsed", FieldRecords, 3)
	out := buf.String()
	assert.Contains(t, out, "component=ingest")
	assert.Contains(t, out, "records=3")

	buf.Reset()
	logger.DebugContext(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Component: ComponentHTTP})
	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	fallback := FromContext(context.Background())
	assert.Equal(t, "unknown", fallback.Component())
}

func TestMiddlewareAddsRequestAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Component: ComponentHTTP})
	h := Middleware(logger, func(r *http.Request) []any {
		return []any{FieldPath, r.URL.Path}
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("handled")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/export.csv", nil))
	assert.Contains(t, buf.String(), "path=/export.csv")
	assert.Contains(t, buf.String(), "component=http")
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithHTTPRequest("GET", "/", "test").
		WithHTTPResponse(200, 5).
		WithError(errors.New("boom")).
		WithRecord("Food", "12.5")
	assert.Equal(t, "boom", f[FieldError])
	assert.Equal(t, 200, f[FieldStatusCode])
	assert.Len(t, f.ToSlice(), len(f)*2)

	assert.NotContains(t, NewFields().WithError(nil), FieldError)
}
