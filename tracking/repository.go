package tracking

import (
	"context"
	"time"
)

// Repository persists limits and the clean date history. The domain
// aggregates stay plain values; persistence happens on explicit command
// from the caller, never from inside the engine.
//
// Saves are best effort: when a save fails after an in-memory mutation,
// the mutation is kept and the storage error is reported upward. There is
// no rollback.
type Repository interface {
	// LoadAllLimits returns every stored limit with its day ledgers in
	// their original storage order.
	LoadAllLimits(ctx context.Context) ([]*Limit, error)

	// SaveLimit persists a limit, creating or replacing its record.
	SaveLimit(ctx context.Context, limit *Limit) error

	// DeleteLimit removes a limit and cascades to its day ledgers and
	// log entries.
	DeleteLimit(ctx context.Context, id string) error

	// CleanDates returns the clean date history in append order.
	CleanDates(ctx context.Context) ([]time.Time, error)

	// AppendCleanDate records a new clean marker. Append-only.
	AppendCleanDate(ctx context.Context, date time.Time) error
}

// LoadCollection assembles the full collection from a repository.
func LoadCollection(ctx context.Context, repo Repository) (*Collection, error) {
	limits, err := repo.LoadAllLimits(ctx)
	if err != nil {
		return nil, err
	}
	cleanDates, err := repo.CleanDates(ctx)
	if err != nil {
		return nil, err
	}
	c := NewCollection(limits, cleanDates)
	c.sort()
	return c, nil
}
