package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/rental-booking/internal/model"
)

// MemoryBackend keeps everything in process memory. It is the default
// backend and the one used by tests.
type MemoryBackend struct {
	mu           sync.Mutex
	reservations []model.Reservation
	completions  []model.CompletedReminder
	checklists   map[string][]bool
}

// NewMemoryBackend returns an empty backend optionally seeded with rs.
func NewMemoryBackend(rs ...model.Reservation) *MemoryBackend {
	return &MemoryBackend{
		reservations: cloneReservations(rs),
		checklists:   map[string][]bool{},
	}
}

func (m *MemoryBackend) LoadReservations(ctx context.Context) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneReservations(m.reservations), nil
}

func (m *MemoryBackend) SaveReservations(ctx context.Context, rs []model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations = cloneReservations(rs)
	return nil
}

func (m *MemoryBackend) LoadCompletions(ctx context.Context) ([]model.CompletedReminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CompletedReminder(nil), m.completions...), nil
}

func (m *MemoryBackend) SaveCompletions(ctx context.Context, entries []model.CompletedReminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions = append([]model.CompletedReminder(nil), entries...)
	return nil
}

func (m *MemoryBackend) LoadChecklists(ctx context.Context) (map[string][]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneChecklists(m.checklists), nil
}

func (m *MemoryBackend) SaveChecklists(ctx context.Context, state map[string][]bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checklists = cloneChecklists(state)
	return nil
}
