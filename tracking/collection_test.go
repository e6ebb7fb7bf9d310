package tracking_test

import (
	"testing"
	"time"

	"github.com/greenclean/serene/tracking"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitNamed(t *testing.T, name string, category tracking.Category, quota int64) *tracking.Limit {
	t.Helper()
	limit, err := tracking.NewLimit(name, category, "Units",
		decimal.NewFromInt(quota), tracking.TimingDaily, day0)
	require.NoError(t, err)
	return limit
}

// =============================================================================
// UNIQUENESS
// =============================================================================

func TestCollectionAdd_RejectsDuplicateNameCaseInsensitive(t *testing.T) {
	// GIVEN: A collection holding "Coffee"
	// WHEN: Adding a second limit named "coffee"
	// THEN: The add is rejected before any persistence would happen

	c := tracking.NewCollection(nil, nil)
	require.NoError(t, c.Add(newLimitNamed(t, "Coffee", tracking.CategoryFood, 3)))

	err := c.Add(newLimitNamed(t, "coffee", tracking.CategoryDrug, 5))
	assert.ErrorIs(t, err, tracking.ErrDuplicateName)

	var dupErr *tracking.DuplicateNameError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "Coffee", dupErr.Existing)
	assert.Len(t, c.Limits, 1)
}

func TestCollectionRename_EnforcesUniqueness(t *testing.T) {
	c := tracking.NewCollection(nil, nil)
	coffee := newLimitNamed(t, "Coffee", tracking.CategoryFood, 3)
	tea := newLimitNamed(t, "Tea", tracking.CategoryFood, 2)
	require.NoError(t, c.Add(coffee))
	require.NoError(t, c.Add(tea))

	assert.ErrorIs(t, c.Rename(tea.ID, "COFFEE"), tracking.ErrDuplicateName)
	assert.Equal(t, "Tea", tea.Name)

	// Renaming to your own name with different casing is fine.
	require.NoError(t, c.Rename(coffee.ID, "COFFEE"))
	assert.Equal(t, "COFFEE", coffee.Name)
}

func TestCollectionRename_UnknownLimit(t *testing.T) {
	c := tracking.NewCollection(nil, nil)
	assert.ErrorIs(t, c.Rename("missing", "Anything"), tracking.ErrLimitNotFound)
}

func TestCollection_SortedByNameWithCategoryPartitions(t *testing.T) {
	c := tracking.NewCollection(nil, nil)
	require.NoError(t, c.Add(newLimitNamed(t, "Wine", tracking.CategoryDrug, 2)))
	require.NoError(t, c.Add(newLimitNamed(t, "Candy", tracking.CategoryFood, 5)))
	require.NoError(t, c.Add(newLimitNamed(t, "Gaming", tracking.CategoryActivity, 3)))
	require.NoError(t, c.Add(newLimitNamed(t, "Beer", tracking.CategoryDrug, 1)))

	names := make([]string, len(c.Limits))
	for i, l := range c.Limits {
		names[i] = l.Name
	}
	assert.Equal(t, []string{"Beer", "Candy", "Gaming", "Wine"}, names)

	require.Len(t, c.Drugs(), 2)
	assert.Equal(t, "Beer", c.Drugs()[0].Name)
	assert.Len(t, c.Foods(), 1)
	assert.Len(t, c.Activities(), 1)
}

func TestCollectionRemove_Cascades(t *testing.T) {
	c := tracking.NewCollection(nil, nil)
	limit := newLimitNamed(t, "Coffee", tracking.CategoryFood, 3)
	require.NoError(t, c.Add(limit))

	require.NoError(t, c.Remove(limit.ID))
	assert.Empty(t, c.Limits)
	assert.ErrorIs(t, c.Remove(limit.ID), tracking.ErrLimitNotFound)
}

// =============================================================================
// GAME STATUS
// =============================================================================

func TestGameMood_Priority(t *testing.T) {
	// over beats caution beats ok, regardless of how many limits sit at
	// their quota.

	now := noon

	ok := newLimitNamed(t, "Under", tracking.CategoryFood, 10)
	ok.AppendLog(now, tracking.NewLogEntry(decimal.NewFromInt(2), now))

	atLimit := newLimitNamed(t, "At", tracking.CategoryFood, 3)
	atLimit.AppendLog(now, tracking.NewLogEntry(decimal.NewFromInt(3), now))

	over := newLimitNamed(t, "Over", tracking.CategoryDrug, 1)
	over.AppendLog(now, tracking.NewLogEntry(decimal.NewFromInt(2), now))

	c := tracking.NewCollection([]*tracking.Limit{ok}, nil)
	assert.Equal(t, tracking.MoodOK, c.GameMood(now))

	c = tracking.NewCollection([]*tracking.Limit{ok, atLimit}, nil)
	assert.Equal(t, tracking.MoodCaution, c.GameMood(now))

	c = tracking.NewCollection([]*tracking.Limit{ok, atLimit, over}, nil)
	assert.Equal(t, tracking.MoodOver, c.GameMood(now))

	c = tracking.NewCollection([]*tracking.Limit{over}, nil)
	assert.Equal(t, tracking.MoodOver, c.GameMood(now))
}

func TestGameScore_RoundedAggregate(t *testing.T) {
	// GIVEN: One limit with a single 60-point day
	// THEN: score = round(60 / 100 * 1000) = 600

	limit := newLimitNamed(t, "Coffee", tracking.CategoryFood, 10)
	limit.AppendLog(day0, tracking.NewLogEntry(decimal.NewFromInt(4), day0))

	now := day0.AddDate(0, 0, 1)
	c := tracking.NewCollection([]*tracking.Limit{limit}, nil)
	assert.Equal(t, int64(600), c.GameScore(now))
	assert.Equal(t, "You Have 600 Points", c.GameScoreString(now))
}

func TestGameScoreString_Pluralization(t *testing.T) {
	now := noon
	c := tracking.NewCollection(nil, nil)
	assert.Equal(t, "You Have No Points", c.GameScoreString(now))
}

// =============================================================================
// CLEAN TIME
// =============================================================================

func TestCleanDate_LatestAppendWins(t *testing.T) {
	c := tracking.NewCollection(nil, nil)
	_, ok := c.CleanDate()
	assert.False(t, ok)

	now := day0.AddDate(0, 0, 30)
	require.NoError(t, c.ResetCleanDate(day0, now))
	require.NoError(t, c.ResetCleanDate(day0.AddDate(0, 0, 10), now))

	date, ok := c.CleanDate()
	require.True(t, ok)
	assert.Equal(t, day0.AddDate(0, 0, 10), date)
	assert.Len(t, c.CleanDates, 2, "history is append-only")
}

func TestResetCleanDate_RejectsFuture(t *testing.T) {
	c := tracking.NewCollection(nil, nil)
	now := noon
	err := c.ResetCleanDate(now.Add(time.Hour), now)
	assert.ErrorIs(t, err, tracking.ErrFutureCleanDate)
	assert.Empty(t, c.CleanDates)
}

func TestCleanTimeString(t *testing.T) {
	c := tracking.NewCollection(nil, nil)
	now := day0.AddDate(0, 0, 9)
	require.NoError(t, c.ResetCleanDate(day0, now))
	assert.Equal(t, "1 week", c.CleanTimeString(now))

	assert.Equal(t, "", tracking.NewCollection(nil, nil).CleanTimeString(now))
}
