// Package store provides tracking.Repository implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/greenclean/serene/tracking"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	limits     map[string]*tracking.Limit
	order      []string // insertion order of limit IDs
	cleanDates []time.Time
}

func NewMemory() *Memory {
	return &Memory{limits: make(map[string]*tracking.Limit)}
}

var _ tracking.Repository = (*Memory)(nil)

func (m *Memory) LoadAllLimits(_ context.Context) ([]*tracking.Limit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*tracking.Limit, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.limits[id].Clone())
	}
	return result, nil
}

func (m *Memory) SaveLimit(_ context.Context, limit *tracking.Limit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.limits[limit.ID]; !exists {
		m.order = append(m.order, limit.ID)
	}
	m.limits[limit.ID] = limit.Clone()
	return nil
}

func (m *Memory) DeleteLimit(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.limits[id]; !exists {
		return tracking.ErrLimitNotFound
	}
	delete(m.limits, id)
	for i, stored := range m.order {
		if stored == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) CleanDates(_ context.Context) ([]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]time.Time, len(m.cleanDates))
	copy(result, m.cleanDates)
	return result, nil
}

func (m *Memory) AppendCleanDate(_ context.Context, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleanDates = append(m.cleanDates, date)
	return nil
}
