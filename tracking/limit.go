/*
limit.go - The Limit aggregate: day ledger lookup and log appending

PURPOSE:
  A Limit owns an ordered collection of day ledgers plus its quota
  configuration. This file implements the two mutation paths:

  DayFor:    Lazy lookup-or-create of a calendar day's ledger. At most one
             ledger exists per calendar day; creation snapshots the quota
             in effect at that moment.
  AppendLog: Appends a signed consumption delta to a day's ledger. A zero
             amount is a no-op and never creates a spurious entry.

STORAGE ORDER:
  Day ledgers are ordered by creation, not by date. Backfilling an older
  day appends its ledger after newer ones. The relapse scan in progress.go
  deliberately walks this storage order, so it must be preserved across
  serialization round-trips.

SIDE EFFECTS:
  Creating a day ledger or appending a log mutates the limit. Callers that
  hold the limit in a repository must save it afterwards; the aggregate
  itself knows nothing about persistence.
*/
package tracking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Limit is a user-defined quota target for a category of consumption.
type Limit struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     Category        `json:"category"`
	UnitsName    string          `json:"units_name"`
	Quota        decimal.Decimal `json:"quota"`
	Timing       Timing          `json:"timing"`
	CreationDate time.Time       `json:"creation_date"`
	IconName     string          `json:"icon_name"`
	Days         []*Day          `json:"days"`

	// SelectedDate is the UI-navigable day, defaulting to the current day.
	// Not persisted.
	SelectedDate time.Time `json:"-"`
}

// NewLimit validates and creates a limit. The quota must be positive;
// name uniqueness is enforced by the owning Collection, not here.
func NewLimit(name string, category Category, unitsName string, quota decimal.Decimal, timing Timing, createdAt time.Time) (*Limit, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if !quota.IsPositive() {
		return nil, ErrNonPositiveQuota
	}
	return &Limit{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     category,
		UnitsName:    unitsName,
		Quota:        quota,
		Timing:       timing,
		CreationDate: createdAt,
		SelectedDate: createdAt,
	}, nil
}

// SetQuota changes the quota going forward. Existing day ledgers keep the
// snapshot they were created with.
func (l *Limit) SetQuota(quota decimal.Decimal) error {
	if !quota.IsPositive() {
		return ErrNonPositiveQuota
	}
	l.Quota = quota
	return nil
}

// =============================================================================
// DAY LEDGER LOOKUP / CREATION
// =============================================================================

// DayFor returns the ledger for the calendar day containing date, creating
// it if it does not exist yet. Time-of-day is ignored. Creation is the
// unconditional fallback: this never fails.
//
// The returned ledger is owned by the limit; callers mutate it in place
// via AppendLog.
func (l *Limit) DayFor(date time.Time) *Day {
	for _, d := range l.Days {
		if SameDay(d.Date, date) {
			return d
		}
	}
	day := NewDay(date, l.Quota)
	l.Days = append(l.Days, day)
	return day
}

// FindDay returns the ledger for a calendar day without creating one.
func (l *Limit) FindDay(date time.Time) (*Day, bool) {
	for _, d := range l.Days {
		if SameDay(d.Date, date) {
			return d, true
		}
	}
	return nil, false
}

// CurrentDay resolves the ledger for now's calendar day.
func (l *Limit) CurrentDay(now time.Time) *Day {
	return l.DayFor(now)
}

// SelectedDay resolves the ledger for the selected date, falling back to
// now when no selection was made.
func (l *Limit) SelectedDay(now time.Time) *Day {
	if l.SelectedDate.IsZero() {
		l.SelectedDate = now
	}
	return l.DayFor(l.SelectedDate)
}

// SelectionBounds is the inclusive window the selected day may navigate
// within: from the day after creation up to the current day.
func (l *Limit) SelectionBounds(now time.Time) Period {
	return Period{Start: DayStart(l.CreationDate).AddDate(0, 0, 1), End: DayStart(now)}
}

// SelectDate moves the selected day, rejecting dates outside the
// navigable window.
func (l *Limit) SelectDate(date, now time.Time) error {
	if !l.SelectionBounds(now).Contains(date) {
		return ErrDateOutOfRange
	}
	l.SelectedDate = DayStart(date)
	return nil
}

// =============================================================================
// LOGGING A CHANGE
// =============================================================================

// AppendLog records a signed consumption delta against the ledger for the
// given calendar day. A zero amount is a no-op that creates neither a log
// entry nor (when absent) a day ledger. Returns the appended entry, or nil
// for the no-op case.
func (l *Limit) AppendLog(day time.Time, entry LogEntry) *LogEntry {
	if entry.Amount.IsZero() {
		return nil
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	ledger := l.DayFor(day)
	ledger.Logs = append(ledger.Logs, entry)
	return &ledger.Logs[len(ledger.Logs)-1]
}

// ReductionDelta computes the signed delta for a "reduce usage" action.
// The delta is clamped so the resulting day total is never negative:
// reducing 5 from a total of 3 yields a delta of -3, leaving exactly 0.
// The engine itself never clamps totals; callers apply this before
// AppendLog.
func ReductionDelta(currentDayTotal, requestedReduction decimal.Decimal) decimal.Decimal {
	if currentDayTotal.Sub(requestedReduction).IsNegative() {
		return currentDayTotal.Neg()
	}
	return requestedReduction.Neg()
}

// Clone returns a deep copy of the limit, including its day ledgers.
func (l *Limit) Clone() *Limit {
	days := make([]*Day, len(l.Days))
	for i, d := range l.Days {
		days[i] = d.Clone()
	}
	c := *l
	c.Days = days
	return &c
}
