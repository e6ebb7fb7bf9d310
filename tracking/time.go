package tracking

import (
	"fmt"
	"time"
)

// =============================================================================
// CALENDAR DAY HELPERS
// =============================================================================

// DayStart truncates a time to its local day boundary. Day ledgers are
// keyed by this value; two times on the same calendar day resolve to the
// same ledger.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayStart(a).Equal(DayStart(b))
}

// DaysBetween returns the number of whole calendar days from one day to
// another. Negative when to precedes from. Counts calendar days, not
// 24-hour spans: a day shortened or stretched by a DST transition still
// counts as exactly one day, so the dates are re-anchored in UTC before
// differencing.
func DaysBetween(from, to time.Time) int {
	f := DayStart(from)
	t := DayStart(to)
	fu := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	tu := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(tu.Sub(fu).Hours() / 24)
}

// =============================================================================
// PERIOD - The span a quota's timing is phrased in
// =============================================================================

// Period is an inclusive [Start, End] span of calendar days.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the period.
func (p Period) Contains(t time.Time) bool {
	d := DayStart(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) String() string {
	return "[" + p.Start.Format("2006-01-02") + ", " + p.End.Format("2006-01-02") + "]"
}

// PeriodFor returns the period of this timing that contains the given day.
// This is display metadata only: progress arithmetic stays per-day even for
// weekly/monthly/yearly timings. Weeks start on Sunday, matching the
// calendar the original data was recorded against.
func (t Timing) PeriodFor(day time.Time) Period {
	d := DayStart(day)
	switch t {
	case TimingWeekly:
		start := d.AddDate(0, 0, -int(d.Weekday()))
		return Period{Start: start, End: start.AddDate(0, 0, 6)}
	case TimingMonthly:
		start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
		return Period{Start: start, End: start.AddDate(0, 1, -1)}
	case TimingYearly:
		start := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, d.Location())
		return Period{Start: start, End: start.AddDate(1, 0, -1)}
	default:
		return Period{Start: d, End: d}
	}
}

// =============================================================================
// DURATION FORMATTING - Clean time display
// =============================================================================

// FormatDaySpan renders the span between two dates using only its most
// significant non-zero unit: years, then months, then weeks, then days.
// "0 days" when the dates share a calendar day.
func FormatDaySpan(from, to time.Time) string {
	start := DayStart(from)
	end := DayStart(to)
	if end.Before(start) {
		start, end = end, start
	}

	years := 0
	for !start.AddDate(years+1, 0, 0).After(end) {
		years++
	}
	if years > 0 {
		return pluralize(years, "year")
	}

	months := 0
	for !start.AddDate(0, months+1, 0).After(end) {
		months++
	}
	if months > 0 {
		return pluralize(months, "month")
	}

	days := DaysBetween(start, end)
	if days >= 7 {
		return pluralize(days/7, "week")
	}
	return pluralize(days, "day")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
