package escalation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReference(t *testing.T) {
	a := NewReference()
	b := NewReference()

	assert.Regexp(t, `^ESC-[0-9A-F]{8}$`, a)
	assert.NotEqual(t, a, b)
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	older := &Record{Reference: "ESC-1", CustomerID: "c1", Amount: decimal.NewFromInt(490), CreatedAt: time.Now().Add(-time.Hour)}
	newer := &Record{Reference: "ESC-2", CustomerID: "c2", Amount: decimal.NewFromInt(120), Status: StatusResolved}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	assert.Equal(t, uint(1), older.ID)
	assert.Equal(t, StatusOpen, older.Status)

	assert.Error(t, repo.Create(ctx, &Record{Reference: "ESC-1"}))

	all, err := repo.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ESC-2", all[0].Reference)

	open, err := repo.List(ctx, StatusOpen, 10)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "ESC-1", open[0].Reference)

	got, err := repo.GetByReference(ctx, "ESC-2")
	require.NoError(t, err)
	assert.Equal(t, "c2", got.CustomerID)

	_, err = repo.GetByReference(ctx, "ESC-404")
	assert.ErrorIs(t, err, ErrNotFound)
}
