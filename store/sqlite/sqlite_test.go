package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenclean/serene/store/sqlite"
	"github.com/greenclean/serene/tracking"
)

func newTestRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

var creation = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

func TestRepository_SaveAndLoadRoundTrip(t *testing.T) {
	// GIVEN: A limit with logged days, fractional amounts, photo and
	//        location payloads
	// WHEN: Saving and loading
	// THEN: Everything round-trips, amounts exactly

	repo := newTestRepo(t)
	ctx := context.Background()

	limit, err := tracking.NewLimit("Coffee", tracking.CategoryFood, "Cups",
		decimal.RequireFromString("2.5"), tracking.TimingDaily, creation)
	require.NoError(t, err)

	entry := tracking.NewLogEntry(decimal.RequireFromString("0.1"), creation.Add(9*time.Hour))
	entry.PhotoRef = "photo-1"
	entry.Location = &tracking.Coordinate{Latitude: 45.52, Longitude: -122.68}
	limit.AppendLog(creation, entry)
	limit.AppendLog(creation, tracking.NewLogEntry(decimal.RequireFromString("-0.1"), creation.Add(10*time.Hour)))

	require.NoError(t, repo.SaveLimit(ctx, limit))

	loaded, err := repo.LoadAllLimits(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, limit.ID, got.ID)
	assert.Equal(t, "Coffee", got.Name)
	assert.Equal(t, tracking.CategoryFood, got.Category)
	assert.Equal(t, tracking.TimingDaily, got.Timing)
	assert.True(t, got.Quota.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, got.CreationDate.Equal(creation))

	require.Len(t, got.Days, 1)
	day := got.Days[0]
	require.Len(t, day.Logs, 2)
	assert.True(t, day.UnitsLogged().IsZero())
	assert.Equal(t, "photo-1", day.Logs[0].PhotoRef)
	require.NotNil(t, day.Logs[0].Location)
	assert.Equal(t, 45.52, day.Logs[0].Location.Latitude)
	assert.True(t, day.Quota.Equal(decimal.RequireFromString("2.5")))
}

func TestRepository_DecimalStringsSurviveRepeatedCycles(t *testing.T) {
	// Amounts are stored as decimal strings; ten encode/decode cycles must
	// not introduce drift.

	repo := newTestRepo(t)
	ctx := context.Background()

	limit, err := tracking.NewLimit("Sugar", tracking.CategoryFood, "Grams",
		decimal.RequireFromString("33.333"), tracking.TimingDaily, creation)
	require.NoError(t, err)
	limit.AppendLog(creation, tracking.NewLogEntry(decimal.RequireFromString("0.1"), creation))

	for i := 0; i < 10; i++ {
		require.NoError(t, repo.SaveLimit(ctx, limit))
		loaded, err := repo.LoadAllLimits(ctx)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		limit = loaded[0]
	}

	assert.Equal(t, "33.333", limit.Quota.String())
	assert.Equal(t, "0.1", limit.Days[0].Logs[0].Amount.String())
}

func TestRepository_SaveUpdatesExisting(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	limit, err := tracking.NewLimit("Coffee", tracking.CategoryFood, "Cups",
		decimal.NewFromInt(3), tracking.TimingDaily, creation)
	require.NoError(t, err)
	require.NoError(t, repo.SaveLimit(ctx, limit))

	require.NoError(t, limit.SetQuota(decimal.NewFromInt(5)))
	limit.Name = "Espresso"
	require.NoError(t, repo.SaveLimit(ctx, limit))

	loaded, err := repo.LoadAllLimits(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Espresso", loaded[0].Name)
	assert.True(t, loaded[0].Quota.Equal(decimal.NewFromInt(5)))
}

func TestRepository_DeleteCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	limit, err := tracking.NewLimit("Coffee", tracking.CategoryFood, "Cups",
		decimal.NewFromInt(3), tracking.TimingDaily, creation)
	require.NoError(t, err)
	limit.AppendLog(creation, tracking.NewLogEntry(decimal.NewFromInt(1), creation))
	require.NoError(t, repo.SaveLimit(ctx, limit))

	require.NoError(t, repo.DeleteLimit(ctx, limit.ID))

	loaded, err := repo.LoadAllLimits(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	assert.ErrorIs(t, repo.DeleteLimit(ctx, limit.ID), tracking.ErrLimitNotFound)
}

func TestRepository_DuplicateNameBackstop(t *testing.T) {
	// The collection rejects duplicates before saving; the unique index is
	// a backstop against writers that skip the collection.

	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := tracking.NewLimit("Coffee", tracking.CategoryFood, "Cups",
		decimal.NewFromInt(3), tracking.TimingDaily, creation)
	require.NoError(t, err)
	require.NoError(t, repo.SaveLimit(ctx, first))

	second, err := tracking.NewLimit("coffee", tracking.CategoryDrug, "Cups",
		decimal.NewFromInt(1), tracking.TimingDaily, creation)
	require.NoError(t, err)

	err = repo.SaveLimit(ctx, second)
	assert.ErrorIs(t, err, tracking.ErrStorage)
}

func TestRepository_CleanDatesAppendOnly(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	dates, err := repo.CleanDates(ctx)
	require.NoError(t, err)
	assert.Empty(t, dates)

	require.NoError(t, repo.AppendCleanDate(ctx, creation))
	require.NoError(t, repo.AppendCleanDate(ctx, creation.AddDate(0, 0, 10)))

	dates, err = repo.CleanDates(ctx)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.True(t, dates[0].Equal(creation))
	assert.True(t, dates[1].Equal(creation.AddDate(0, 0, 10)))
}

func TestLoadCollection_AssemblesFromRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	limit, err := tracking.NewLimit("Coffee", tracking.CategoryFood, "Cups",
		decimal.NewFromInt(3), tracking.TimingDaily, creation)
	require.NoError(t, err)
	require.NoError(t, repo.SaveLimit(ctx, limit))
	require.NoError(t, repo.AppendCleanDate(ctx, creation))

	c, err := tracking.LoadCollection(ctx, repo)
	require.NoError(t, err)
	assert.Len(t, c.Limits, 1)

	date, ok := c.CleanDate()
	require.True(t, ok)
	assert.True(t, date.Equal(creation))
}
