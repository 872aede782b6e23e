package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

func rec(cat, amount string) core.Record {
	return core.Record{Category: cat, Amount: decimal.RequireFromString(amount), Date: core.NewDate(2024, 5, 1)}
}

func TestMemoryStoreAppendAndTable(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	ref, err := s.Append(ctx, rec("Food", "12.50"))
	require.NoError(t, err)
	_, err = uuid.Parse(ref)
	assert.NoError(t, err)

	_, err = s.Append(ctx, rec("Travel", "0"))
	require.NoError(t, err)

	tbl := s.Table(ctx)
	require.Len(t, tbl, 2)
	assert.Equal(t, "Food", tbl[0].Category)
	assert.Equal(t, "Travel", tbl[1].Category)
	assert.Equal(t, 2, s.Len())
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	_, err := s.Append(ctx, rec("", "1"))
	assert.ErrorIs(t, err, core.ErrEmptyCategory)

	_, err = s.Append(ctx, rec("Food", "-1"))
	assert.ErrorIs(t, err, core.ErrNegativeAmount)

	_, err = s.Append(ctx, core.Record{Category: "Food", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, core.ErrInvalidDate)

	assert.Zero(t, s.Len())
}

func TestMemoryStoreTableIsACopy(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	_, err := s.Append(ctx, rec("Food", "1"))
	require.NoError(t, err)

	tbl := s.Table(ctx)
	tbl[0].Category = "Changed"
	assert.Equal(t, "Food", s.Table(ctx)[0].Category)
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, rec("Food", "1"))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.Clear(ctx))
	assert.Empty(t, s.Table(ctx))
	assert.Equal(t, 0, s.Clear(ctx))
}

func TestSuggestions(t *testing.T) {
	ctx := context.Background()
	s := New([]string{"A", "B", "A"})
	_, err := s.Append(ctx, rec("C", "1"))
	require.NoError(t, err)
	_, err = s.Append(ctx, rec("A", "1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, s.Suggestions(ctx))
}

func TestNewFromFilesSeedsAndDedupe(t *testing.T) {
	dir := t.TempDir()
	s := NewFromFiles(dir)
	assert.NotEmpty(t, s.Suggestions(context.Background()), "expected defaults when file missing")

	err := os.WriteFile(filepath.Join(dir, "seed_categories.txt"), []byte("# header\nA\nB\nA\n\n"), 0o644)
	require.NoError(t, err)

	s = NewFromFiles(dir)
	assert.Equal(t, []string{"A", "B"}, s.Suggestions(context.Background()))
}
