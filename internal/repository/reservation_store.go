package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/rental-booking/internal/model"
)

// ReservationStore is the in-memory working copy of the reservation list.
// Every mutation is written through to the backend wholesale; when the
// write fails the in-memory list is rolled back so callers never observe a
// partially applied change.
type ReservationStore struct {
	mu      sync.RWMutex
	backend Backend
	items   []model.Reservation
	lastID  int64
}

// NewReservationStore returns an empty store bound to backend. Call Load
// before serving requests.
func NewReservationStore(backend Backend) *ReservationStore {
	return &ReservationStore{backend: backend}
}

// Load replaces the working copy with the backend's contents.
func (s *ReservationStore) Load(ctx context.Context) error {
	rs, err := s.backend.LoadReservations(ctx)
	if err != nil {
		return fmt.Errorf("load reservations: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = rs
	s.lastID = 0
	for _, r := range rs {
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
	return nil
}

// Snapshot returns a copy of the list in insertion order.
func (s *ReservationStore) Snapshot() []model.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneReservations(s.items)
}

// Get returns the reservation with the given id.
func (s *ReservationStore) Get(id int64) (model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Reservation{}, ErrNotFound
	}
	return s.items[i], nil
}

// NextID returns a millisecond timestamp id, bumped past the last issued
// id when the clock has not advanced.
func (s *ReservationStore) NextID(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Insert appends r and persists the list.
func (s *ReservationStore) Insert(ctx context.Context, r model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(r.ID) >= 0 {
		return fmt.Errorf("reservation %d: %w", r.ID, ErrConflict)
	}
	prev := s.items
	next := append(cloneReservations(prev), r)
	if err := s.backend.SaveReservations(ctx, next); err != nil {
		return fmt.Errorf("save reservations: %w", err)
	}
	s.items = next
	if r.ID > s.lastID {
		s.lastID = r.ID
	}
	return nil
}

// Update applies fn to a copy of the reservation with the given id and
// persists the result. If fn returns an error nothing is written.
func (s *ReservationStore) Update(ctx context.Context, id int64, fn func(*model.Reservation) error) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Reservation{}, ErrNotFound
	}
	r := s.items[i]
	if err := fn(&r); err != nil {
		return model.Reservation{}, err
	}
	r.ID = id
	next := cloneReservations(s.items)
	next[i] = r
	if err := s.backend.SaveReservations(ctx, next); err != nil {
		return model.Reservation{}, fmt.Errorf("save reservations: %w", err)
	}
	s.items = next
	return r, nil
}

// Delete removes the reservation with the given id and persists the list.
func (s *ReservationStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	next := make([]model.Reservation, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	if err := s.backend.SaveReservations(ctx, next); err != nil {
		return fmt.Errorf("save reservations: %w", err)
	}
	s.items = next
	return nil
}

func (s *ReservationStore) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
