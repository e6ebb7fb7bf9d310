/*
progress.go - The progress & streak engine

PURPOSE:
  Pure queries over a limit's day ledgers. Nothing here mutates state or
  touches storage; every figure is re-derived on each call.

THE TRICHOTOMY:
  Status is driven by ratio = unitsLogged / quota, classified strictly:
    ratio < 1  -> under limit
    ratio == 1 -> at limit
    ratio > 1  -> over limit
  The boundary case matters: an exactly-at-limit day is neither under nor
  over, displays its own status, and earns zero points.

THE RELAPSE SCAN:
  LastOverLimitDate walks day ledgers in storage order (creation order,
  not date order) and returns the FIRST over-limit day whose date is not
  after the reference day. When ledgers were backfilled out of order this
  can differ from "most recent over-limit day". The behavior is kept
  bit-for-bit because every streak figure users have already seen was
  computed this way; see DESIGN.md.

POINTS:
  Only past days with at least one log entry and a non-over-limit status
  earn points, scaled by how far under the limit the day finished:
    points = (1 - ratio) * 100
  An at-limit day is eligible but scores 0; an over-limit day is
  ineligible outright.
*/
package tracking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status classifies a day against its limit's quota.
type Status string

const (
	StatusUnderLimit Status = "under_limit"
	StatusAtLimit    Status = "at_limit"
	StatusOverLimit  Status = "over_limit"
)

var oneHundred = decimal.NewFromInt(100)

// =============================================================================
// PER-DAY QUERIES
// =============================================================================

// UnitsRemaining is the quota minus the day's running total. Negative when
// the day is over limit.
func (l *Limit) UnitsRemaining(day *Day) decimal.Decimal {
	return l.Quota.Sub(day.UnitsLogged())
}

// ProgressRatio is the day's running total as a fraction of the quota.
// May exceed 1. Division is safe: quota positivity is enforced at
// create/edit time.
func (l *Limit) ProgressRatio(day *Day) decimal.Decimal {
	return day.UnitsLogged().Div(l.Quota)
}

// StatusForDay classifies the day. Exhaustive and mutually exclusive.
func (l *Limit) StatusForDay(day *Day) Status {
	logged := day.UnitsLogged()
	switch logged.Cmp(l.Quota) {
	case 1:
		return StatusOverLimit
	case 0:
		return StatusAtLimit
	default:
		return StatusUnderLimit
	}
}

// IsOverLimit reports whether the day's total exceeds the quota.
func (l *Limit) IsOverLimit(day *Day) bool { return l.StatusForDay(day) == StatusOverLimit }

// IsAtLimit reports whether the day's total equals the quota exactly.
func (l *Limit) IsAtLimit(day *Day) bool { return l.StatusForDay(day) == StatusAtLimit }

// ProgressString renders the day's standing the way the app displays it.
func (l *Limit) ProgressString(day *Day) string {
	left := l.UnitsRemaining(day)
	switch l.StatusForDay(day) {
	case StatusAtLimit:
		return "You Are At Your Limit"
	case StatusOverLimit:
		return fmt.Sprintf("You Are Over By %s %s", left.Neg(), l.UnitsName)
	default:
		return fmt.Sprintf("%s %s Are Still Left", left, l.UnitsName)
	}
}

// ProgressPercentString renders the ratio as a percentage rounded to one
// decimal place, e.g. "66.7%".
func (l *Limit) ProgressPercentString(day *Day) string {
	return l.ProgressRatio(day).Mul(oneHundred).Round(1).String() + "%"
}

// =============================================================================
// STREAK QUERIES
// =============================================================================

// LastOverLimitDate scans day ledgers in storage order for over-limit days
// and returns the first whose date is not after the reference day. The
// second return is false when no over-limit day qualifies.
func (l *Limit) LastOverLimitDate(from *Day) (time.Time, bool) {
	for _, d := range l.Days {
		if !l.IsOverLimit(d) {
			continue
		}
		if DaysBetween(d.Date, from.Date) >= 0 {
			return d.Date, true
		}
	}
	return time.Time{}, false
}

// DaysSinceRelapse counts whole days from the last over-limit day to the
// reference day. With no over-limit day on record, the streak runs from
// the limit's creation date.
func (l *Limit) DaysSinceRelapse(from *Day) int {
	if relapse, ok := l.LastOverLimitDate(from); ok {
		return DaysBetween(relapse, from.Date)
	}
	return DaysBetween(l.CreationDate, from.Date)
}

// =============================================================================
// POINTS
// =============================================================================

// IsEligibleForPoints reports whether a day can score: it must have at
// least one log entry, must not be over limit, and must be strictly
// before now's calendar day.
func (l *Limit) IsEligibleForPoints(day *Day, now time.Time) bool {
	return len(day.Logs) > 0 && !l.IsOverLimit(day) && day.Date.Before(DayStart(now))
}

// PointsForDay scores an eligible day as (1 - ratio) * 100: finishing
// further under the limit scores higher, an exactly-at-limit day scores
// zero, and ineligible days score zero.
func (l *Limit) PointsForDay(day *Day, now time.Time) decimal.Decimal {
	if !l.IsEligibleForPoints(day, now) {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Sub(l.ProgressRatio(day)).Mul(oneHundred)
}

// TotalPoints sums the scores of every eligible day ledger.
func (l *Limit) TotalPoints(now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, d := range l.Days {
		total = total.Add(l.PointsForDay(d, now))
	}
	return total
}
