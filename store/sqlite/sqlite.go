/*
Package sqlite provides a SQLite-backed implementation of tracking.Repository.

PURPOSE:
  Persists limits and the clean date history. A limit's scalar fields live
  in columns; its day ledgers serialize into a JSON document whose amounts
  are decimal strings, so repeated encode/decode cycles never drift.

KEY TABLES:
  limits:      One row per limit; days_json holds the full ledger document
  clean_dates: Append-only history of clean date resets

APPEND-ONLY CLEAN DATES:
  Clean date resets are INSERTed, never UPDATEd. The active marker is the
  most recent row, and the full history stays queryable.

STRICT DECODING:
  Category and timing tags decode through the closed enumerations in the
  tracking package. A row carrying an unknown tag fails the load rather
  than silently falling back; see tracking.UnknownTagError.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  repo, err := sqlite.New("./serene.db")
  if err != nil {
      log.Fatal(err)
  }
  defer repo.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/greenclean/serene/tracking"
)

// Repository implements tracking.Repository using SQLite.
type Repository struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ tracking.Repository = (*Repository)(nil)

// New creates a SQLite repository at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", tracking.ErrStorage, err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate database: %v", tracking.ErrStorage, err)
	}
	return repo, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS limits (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		units_name TEXT NOT NULL,
		quota TEXT NOT NULL,
		timing TEXT NOT NULL,
		icon_name TEXT,
		creation_date TEXT NOT NULL,
		days_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Backstop for the collection-level uniqueness check
	CREATE UNIQUE INDEX IF NOT EXISTS idx_limits_name_nocase
		ON limits(name COLLATE NOCASE);

	CREATE INDEX IF NOT EXISTS idx_limits_category
		ON limits(category);

	-- Clean date history (append-only: no UPDATE, no DELETE)
	CREATE TABLE IF NOT EXISTS clean_dates (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_clean_dates_created
		ON clean_dates(created_at);
	`
	_, err := r.db.Exec(schema)
	return err
}

// =============================================================================
// LIMITS
// =============================================================================

// timestampLayout is fixed width: created_at columns feed lexicographic
// ORDER BY clauses, and RFC3339Nano trims trailing fractional zeros,
// which makes string order diverge from chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// daysDocument is the shape of the days_json column. Amounts ride through
// decimal.Decimal, which marshals as a quoted decimal string.
type daysDocument struct {
	Days []*tracking.Day `json:"days"`
}

func (r *Repository) LoadAllLimits(ctx context.Context) ([]*tracking.Limit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, units_name, quota, timing, icon_name, creation_date, days_json
		FROM limits
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: load limits: %v", tracking.ErrStorage, err)
	}
	defer rows.Close()

	var limits []*tracking.Limit
	for rows.Next() {
		limit, err := scanLimit(rows)
		if err != nil {
			return nil, err
		}
		limits = append(limits, limit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load limits: %v", tracking.ErrStorage, err)
	}
	return limits, nil
}

func scanLimit(rows *sql.Rows) (*tracking.Limit, error) {
	var (
		id, name, categoryTag, unitsName, quotaStr, timingTag string
		iconName                                              sql.NullString
		creationDateStr, daysJSON                             string
	)
	if err := rows.Scan(&id, &name, &categoryTag, &unitsName, &quotaStr, &timingTag,
		&iconName, &creationDateStr, &daysJSON); err != nil {
		return nil, fmt.Errorf("%w: scan limit: %v", tracking.ErrStorage, err)
	}

	category, err := tracking.ParseCategory(categoryTag)
	if err != nil {
		return nil, fmt.Errorf("limit %q: %w", name, err)
	}
	timing, err := tracking.ParseTiming(timingTag)
	if err != nil {
		return nil, fmt.Errorf("limit %q: %w", name, err)
	}
	quota, err := decimal.NewFromString(quotaStr)
	if err != nil {
		return nil, fmt.Errorf("limit %q: %w: quota %q", name, tracking.ErrInvalidInput, quotaStr)
	}
	creationDate, err := time.Parse(time.RFC3339, creationDateStr)
	if err != nil {
		return nil, fmt.Errorf("limit %q: %w: creation date %q", name, tracking.ErrInvalidInput, creationDateStr)
	}

	var doc daysDocument
	if err := json.Unmarshal([]byte(daysJSON), &doc); err != nil {
		return nil, fmt.Errorf("limit %q: decode day ledgers: %w", name, err)
	}

	return &tracking.Limit{
		ID:           id,
		Name:         name,
		Category:     category,
		UnitsName:    unitsName,
		Quota:        quota,
		Timing:       timing,
		CreationDate: creationDate,
		IconName:     iconName.String,
		Days:         doc.Days,
	}, nil
}

func (r *Repository) SaveLimit(ctx context.Context, limit *tracking.Limit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	daysJSON, err := json.Marshal(daysDocument{Days: limit.Days})
	if err != nil {
		return fmt.Errorf("%w: encode day ledgers: %v", tracking.ErrStorage, err)
	}

	now := timestamp(time.Now())
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO limits
			(id, name, category, units_name, quota, timing, icon_name, creation_date, days_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			units_name = excluded.units_name,
			quota = excluded.quota,
			timing = excluded.timing,
			icon_name = excluded.icon_name,
			days_json = excluded.days_json,
			updated_at = excluded.updated_at
	`,
		limit.ID,
		limit.Name,
		limit.Category.String(),
		limit.UnitsName,
		limit.Quota.String(),
		limit.Timing.String(),
		limit.IconName,
		limit.CreationDate.Format(time.RFC3339),
		string(daysJSON),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("%w: save limit %q: %v", tracking.ErrStorage, limit.Name, err)
	}
	return nil
}

func (r *Repository) DeleteLimit(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `DELETE FROM limits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete limit: %v", tracking.ErrStorage, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete limit: %v", tracking.ErrStorage, err)
	}
	if affected == 0 {
		return tracking.ErrLimitNotFound
	}
	return nil
}

// =============================================================================
// CLEAN DATES
// =============================================================================

func (r *Repository) CleanDates(ctx context.Context) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx, `
		SELECT date FROM clean_dates ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: load clean dates: %v", tracking.ErrStorage, err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%w: scan clean date: %v", tracking.ErrStorage, err)
		}
		date, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("%w: clean date %q", tracking.ErrInvalidInput, s)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load clean dates: %v", tracking.ErrStorage, err)
	}
	return dates, nil
}

func (r *Repository) AppendCleanDate(ctx context.Context, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clean_dates (id, date, created_at) VALUES (?, ?, ?)
	`, uuid.NewString(), date.Format(time.RFC3339), timestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("%w: append clean date: %v", tracking.ErrStorage, err)
	}
	return nil
}
