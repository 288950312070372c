package repository

import (
	"context"

	"github.com/iliyamo/rental-booking/internal/model"
)

// Backend persists the reservation list. Saves are wholesale: the list
// passed to SaveReservations replaces whatever was stored before.
type Backend interface {
	LoadReservations(ctx context.Context) ([]model.Reservation, error)
	SaveReservations(ctx context.Context, rs []model.Reservation) error
}

// LedgerBackend persists the reminder completion ledger and the
// per-reminder checklist state.
type LedgerBackend interface {
	LoadCompletions(ctx context.Context) ([]model.CompletedReminder, error)
	SaveCompletions(ctx context.Context, entries []model.CompletedReminder) error
	LoadChecklists(ctx context.Context) (map[string][]bool, error)
	SaveChecklists(ctx context.Context, state map[string][]bool) error
}

// Persistence is implemented by every backend in this package.
type Persistence interface {
	Backend
	LedgerBackend
}

func cloneReservations(rs []model.Reservation) []model.Reservation {
	out := make([]model.Reservation, len(rs))
	copy(out, rs)
	return out
}

func cloneChecklists(state map[string][]bool) map[string][]bool {
	out := make(map[string][]bool, len(state))
	for k, v := range state {
		out[k] = append([]bool(nil), v...)
	}
	return out
}
