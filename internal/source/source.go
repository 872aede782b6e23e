// Package source materializes the expense table from whichever input is
// active: an uploaded file or the manual-entry store.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"expensetracker/internal/cache"
	"expensetracker/internal/core"
)

// Mode selects the active input source.
type Mode string

const (
	ModeUpload Mode = "upload"
	ModeManual Mode = "manual"
)

var (
	ErrUploadNotFound = errors.New("upload not found or expired")
	ErrInvalidMode    = errors.New("invalid input mode")
)

// ParseMode parses a mode name; the empty string selects upload.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeUpload:
		return ModeUpload, nil
	case ModeManual:
		return ModeManual, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// String implements fmt.Stringer
func (m Mode) String() string {
	return string(m)
}

// ManualStore is the manual-entry collaborator.
type ManualStore interface {
	Table(ctx context.Context) core.Table
}

// Uploads keeps parsed uploads addressable by an opaque handle.
type Uploads struct {
	cache cache.Cache[core.Table]
}

func NewUploads(c cache.Cache[core.Table]) *Uploads {
	return &Uploads{cache: c}
}

// Put stores t and returns its handle.
func (u *Uploads) Put(t core.Table) string {
	handle := uuid.NewString()
	u.cache.Set(handle, t)
	return handle
}

// Get returns a copy of the table stored under handle.
func (u *Uploads) Get(handle string) (core.Table, error) {
	if _, err := uuid.Parse(handle); err != nil {
		return nil, ErrUploadNotFound
	}
	t, ok := u.cache.Get(handle)
	if !ok {
		return nil, ErrUploadNotFound
	}
	return append(core.Table(nil), t...), nil
}

// Selector builds the table for a request from the active source.
type Selector struct {
	Uploads *Uploads
	Manual  ManualStore
}

// Table returns a freshly materialized table. In upload mode an empty handle
// means nothing was uploaded yet and yields an empty table.
func (s *Selector) Table(ctx context.Context, mode Mode, handle string) (core.Table, error) {
	switch mode {
	case ModeManual:
		return s.Manual.Table(ctx), nil
	case ModeUpload:
		if handle == "" {
			return nil, nil
		}
		return s.Uploads.Get(handle)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}
