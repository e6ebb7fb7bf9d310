/*
collection.go - The set of all limits for one user, plus game status

PURPOSE:
  Collection owns every limit on the device, exposes category-partitioned
  views, enforces name uniqueness, and aggregates per-limit standings into
  the single "game" readout: a tri-state mood, a point score, and a clean
  time streak.

MOOD PRIORITY:
  over limit on any limit today  -> MoodOver (red), regardless of others
  at limit on any (none over)    -> MoodCaution (yellow)
  otherwise                      -> MoodOK (green)

CLEAN TIME:
  The clean date is a single global marker, independent of per-limit
  streaks, moved only by an explicit reset action. Resets are appended,
  never overwritten: the latest clean date wins, and the history stays.
*/
package tracking

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Mood is the aggregate tri-state game status across all limits.
type Mood string

const (
	MoodOK      Mood = "ok"
	MoodCaution Mood = "caution"
	MoodOver    Mood = "over"
)

// Collection is the set of all limits for one user/device.
type Collection struct {
	Limits     []*Limit
	CleanDates []time.Time // append-only; the latest entry is the active marker
}

func NewCollection(limits []*Limit, cleanDates []time.Time) *Collection {
	return &Collection{Limits: limits, CleanDates: cleanDates}
}

// =============================================================================
// MEMBERSHIP & UNIQUENESS
// =============================================================================

// FindByName returns the limit matching name case-insensitively.
func (c *Collection) FindByName(name string) (*Limit, bool) {
	for _, l := range c.Limits {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return nil, false
}

// FindByID returns the limit with the given ID.
func (c *Collection) FindByID(id string) (*Limit, bool) {
	for _, l := range c.Limits {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// Add admits a limit after the uniqueness check. The check runs before any
// persistence write: callers only save after Add succeeds.
func (c *Collection) Add(limit *Limit) error {
	if strings.TrimSpace(limit.Name) == "" {
		return ErrEmptyName
	}
	if existing, ok := c.FindByName(limit.Name); ok {
		return &DuplicateNameError{Name: limit.Name, Existing: existing.Name}
	}
	c.Limits = append(c.Limits, limit)
	c.sort()
	return nil
}

// Rename changes a limit's name, enforcing the same uniqueness rule.
// Renaming a limit to its own name (any casing) is allowed.
func (c *Collection) Rename(id, newName string) error {
	limit, ok := c.FindByID(id)
	if !ok {
		return ErrLimitNotFound
	}
	if strings.TrimSpace(newName) == "" {
		return ErrEmptyName
	}
	if existing, found := c.FindByName(newName); found && existing.ID != id {
		return &DuplicateNameError{Name: newName, Existing: existing.Name}
	}
	limit.Name = newName
	c.sort()
	return nil
}

// Remove deletes a limit and, with it, all of its day ledgers and logs.
func (c *Collection) Remove(id string) error {
	for i, l := range c.Limits {
		if l.ID == id {
			c.Limits = append(c.Limits[:i], c.Limits[i+1:]...)
			return nil
		}
	}
	return ErrLimitNotFound
}

func (c *Collection) sort() {
	sort.Slice(c.Limits, func(i, j int) bool { return c.Limits[i].Name < c.Limits[j].Name })
}

// =============================================================================
// CATEGORY PARTITIONS - Derived views, not stored
// =============================================================================

func (c *Collection) ByCategory(cat Category) []*Limit {
	var out []*Limit
	for _, l := range c.Limits {
		if l.Category == cat {
			out = append(out, l)
		}
	}
	return out
}

func (c *Collection) Foods() []*Limit      { return c.ByCategory(CategoryFood) }
func (c *Collection) Drugs() []*Limit      { return c.ByCategory(CategoryDrug) }
func (c *Collection) Activities() []*Limit { return c.ByCategory(CategoryActivity) }

// =============================================================================
// GAME STATUS
// =============================================================================

// GameMood aggregates every limit's current-day standing. Over takes
// priority over caution regardless of how many limits sit exactly at
// their quota.
func (c *Collection) GameMood(now time.Time) Mood {
	atLimit := false
	overLimit := false
	for _, l := range c.Limits {
		day := l.CurrentDay(now)
		if l.IsAtLimit(day) {
			atLimit = true
		}
		if l.IsOverLimit(day) {
			overLimit = true
		}
	}
	switch {
	case overLimit:
		return MoodOver
	case atLimit:
		return MoodCaution
	default:
		return MoodOK
	}
}

// GameScore rolls every limit's points into one whole number:
// round(sum / 100 * 1000).
func (c *Collection) GameScore(now time.Time) int64 {
	total := decimal.Zero
	for _, l := range c.Limits {
		total = total.Add(l.TotalPoints(now))
	}
	return total.Div(oneHundred).Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
}

// GameScoreString renders the score with point/points pluralization.
func (c *Collection) GameScoreString(now time.Time) string {
	score := c.GameScore(now)
	if score == 0 {
		return "You Have No Points"
	}
	if score == 1 {
		return "You Have 1 Point"
	}
	return "You Have " + decimal.NewFromInt(score).String() + " Points"
}

// =============================================================================
// CLEAN TIME
// =============================================================================

// CleanDate returns the active clean marker: the most recently appended
// clean date. False when none has ever been set.
func (c *Collection) CleanDate() (time.Time, bool) {
	if len(c.CleanDates) == 0 {
		return time.Time{}, false
	}
	return c.CleanDates[len(c.CleanDates)-1], true
}

// ResetCleanDate appends a new clean marker. Past dates are allowed,
// future dates are rejected.
func (c *Collection) ResetCleanDate(date, now time.Time) error {
	if date.After(now) {
		return ErrFutureCleanDate
	}
	c.CleanDates = append(c.CleanDates, date)
	return nil
}

// CleanTimeString renders the streak since the active clean date using its
// most significant unit. Empty when no clean date is set.
func (c *Collection) CleanTimeString(now time.Time) string {
	date, ok := c.CleanDate()
	if !ok {
		return ""
	}
	return FormatDaySpan(date, now)
}
