/*
Package tracking implements the consumption limit engine.

PURPOSE:
  This package contains the domain model and algorithms for tracking
  consumption against user-defined limits. A Limit is a quota target for a
  category of consumption (food, drug, or activity); signed log entries
  accumulate in per-day ledgers, and all progress, streak, and points
  figures are derived from those ledgers on demand.

KEY CONCEPTS IN THIS FILE (types.go):
  - Category: Closed enumeration of what kind of thing a limit tracks
  - Timing: The display period a quota is phrased in (daily, weekly, ...)
  - LogEntry: An immutable record of one consumption delta
  - Day: One calendar day's ledger of log entries plus its quota snapshot
  - Limit: The aggregate owning day ledgers and quota configuration

DESIGN PRINCIPLES:
  1. Immutability: Log entries are never modified; corrections are new
     negative-amount entries
  2. Precision: Uses decimal.Decimal to avoid floating-point drift
  3. Derivation: No cached aggregates - every figure is recomputed from
     the ledgers when asked for
  4. Strict decoding: Unknown category/timing tags are decode errors,
     never silently defaulted

SEE ALSO:
  - limit.go: Day lookup/creation and log appending
  - progress.go: The progress & streak engine queries
  - collection.go: Cross-limit aggregation and game status
*/
package tracking

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORY - What kind of consumption a limit tracks
// =============================================================================

type Category string

const (
	CategoryFood     Category = "food"
	CategoryDrug     Category = "drug"
	CategoryActivity Category = "activity"
)

// Categories lists every valid category, in display order.
var Categories = []Category{CategoryFood, CategoryDrug, CategoryActivity}

// ParseCategory converts a stored tag into a Category.
// Unknown tags are a hard decode failure: the historical behavior of
// defaulting unrecognized tags to "food" could mask data corruption.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFood, CategoryDrug, CategoryActivity:
		return Category(s), nil
	}
	return "", &UnknownTagError{Field: "category", Tag: s}
}

func (c Category) String() string { return string(c) }

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// =============================================================================
// TIMING - The period a quota is phrased in
// =============================================================================

// Timing is stored and displayed but does not change the arithmetic:
// all progress math is per calendar day regardless of timing. Rolling
// logged amounts up across a week/month/year is deliberately not
// implemented; see PeriodFor for the display-period helper.
type Timing string

const (
	TimingDaily   Timing = "daily"
	TimingWeekly  Timing = "weekly"
	TimingMonthly Timing = "monthly"
	TimingYearly  Timing = "yearly"
)

// ParseTiming converts a stored tag into a Timing.
// Unknown tags fail hard, same rationale as ParseCategory.
func ParseTiming(s string) (Timing, error) {
	switch Timing(s) {
	case TimingDaily, TimingWeekly, TimingMonthly, TimingYearly:
		return Timing(s), nil
	}
	return "", &UnknownTagError{Field: "timing", Tag: s}
}

func (t Timing) String() string { return string(t) }

func (t *Timing) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTiming(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// =============================================================================
// UNIT NAME PRESETS - Display-only, no semantic effect on arithmetic
// =============================================================================

var (
	FoodUnitPresets     = []string{"Meals", "Snacks", "Calories", "Grams"}
	DrugUnitPresets     = []string{"Grams", "Milligrams", "Doses", "Drinks"}
	ActivityUnitPresets = []string{"Hours", "Minutes", "Sessions", "Times"}
)

// =============================================================================
// LOG ENTRY - One recorded consumption delta
// =============================================================================

// Coordinate is an optional geolocation attached to a log entry.
// The engine stores it opaquely and never interprets it.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LogEntry is a single consumption event. Positive amounts record
// consumption, negative amounts record corrections/reductions.
// Entries are immutable once appended.
type LogEntry struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	At       time.Time       `json:"at"`
	PhotoRef string          `json:"photo_ref,omitempty"`
	Location *Coordinate     `json:"location,omitempty"`
}

// NewLogEntry creates a log entry with a fresh ID and the given timestamp.
func NewLogEntry(amount decimal.Decimal, at time.Time) LogEntry {
	return LogEntry{ID: uuid.NewString(), Amount: amount, At: at}
}

// =============================================================================
// DAY - One calendar day's ledger
// =============================================================================

// Day holds the log entries attributed to one calendar day of one limit,
// plus the quota amount that was in effect when the day was created.
// The snapshot is a copy: later quota edits do not rewrite history.
type Day struct {
	Date  time.Time       `json:"date"`
	Logs  []LogEntry      `json:"logs"`
	Quota decimal.Decimal `json:"quota"`
}

// NewDay creates an empty ledger for the calendar day containing date.
func NewDay(date time.Time, quota decimal.Decimal) *Day {
	return &Day{Date: DayStart(date), Quota: quota}
}

// UnitsLogged is the running total for the day: the sum of every entry's
// amount, mixing positive and negative entries.
func (d *Day) UnitsLogged() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Logs {
		total = total.Add(l.Amount)
	}
	return total
}

// Clone returns a deep copy of the day ledger.
func (d *Day) Clone() *Day {
	logs := make([]LogEntry, len(d.Logs))
	copy(logs, d.Logs)
	for i, l := range d.Logs {
		if l.Location != nil {
			loc := *l.Location
			logs[i].Location = &loc
		}
	}
	return &Day{Date: d.Date, Logs: logs, Quota: d.Quota}
}
