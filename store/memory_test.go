package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenclean/serene/store"
	"github.com/greenclean/serene/tracking"
)

func memoryLimit(t *testing.T, name string) *tracking.Limit {
	t.Helper()
	limit, err := tracking.NewLimit(name, tracking.CategoryFood, "Cups",
		decimal.NewFromInt(3), tracking.TimingDaily,
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return limit
}

func TestMemory_SaveReturnsClones(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	limit := memoryLimit(t, "Coffee")
	require.NoError(t, m.SaveLimit(ctx, limit))

	// Mutating the original must not leak into the store.
	limit.Name = "Changed"

	loaded, err := m.LoadAllLimits(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Coffee", loaded[0].Name)
}

func TestMemory_PreservesInsertionOrder(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	for _, name := range []string{"Zebra", "Apple", "Mango"} {
		require.NoError(t, m.SaveLimit(ctx, memoryLimit(t, name)))
	}

	loaded, err := m.LoadAllLimits(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "Zebra", loaded[0].Name)
	assert.Equal(t, "Apple", loaded[1].Name)
	assert.Equal(t, "Mango", loaded[2].Name)
}

func TestMemory_DeleteUnknown(t *testing.T) {
	m := store.NewMemory()
	err := m.DeleteLimit(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, tracking.ErrLimitNotFound)
}

func TestMemory_CleanDatesAppendOnly(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	first := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 5)
	require.NoError(t, m.AppendCleanDate(ctx, first))
	require.NoError(t, m.AppendCleanDate(ctx, second))

	dates, err := m.CleanDates(ctx)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.True(t, dates[0].Equal(first))
	assert.True(t, dates[1].Equal(second))
}
