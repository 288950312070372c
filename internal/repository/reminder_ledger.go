package repository

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/rental-booking/internal/model"
)

// ReminderLedger records which reminders were completed and which checklist
// items were ticked. Like ReservationStore it writes through to its backend
// and rolls back on failure.
type ReminderLedger struct {
	mu         sync.RWMutex
	backend    LedgerBackend
	completed  []model.CompletedReminder
	checklists map[string][]bool
}

// NewReminderLedger returns an empty ledger bound to backend.
func NewReminderLedger(backend LedgerBackend) *ReminderLedger {
	return &ReminderLedger{backend: backend, checklists: map[string][]bool{}}
}

// Load reads completions and checklist state from the backend.
func (l *ReminderLedger) Load(ctx context.Context) error {
	entries, err := l.backend.LoadCompletions(ctx)
	if err != nil {
		return fmt.Errorf("load completed reminders: %w", err)
	}
	lists, err := l.backend.LoadChecklists(ctx)
	if err != nil {
		return fmt.Errorf("load checklists: %w", err)
	}
	if lists == nil {
		lists = map[string][]bool{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.completed = entries
	l.checklists = lists
	return nil
}

// Completed returns a copy of the completion entries.
func (l *ReminderLedger) Completed() []model.CompletedReminder {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]model.CompletedReminder(nil), l.completed...)
}

// IsCompleted reports whether id was completed for the given target day.
func (l *ReminderLedger) IsCompleted(id string, day civil.Date) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.completed {
		if e.ID == id && e.Day == day {
			return true
		}
	}
	return false
}

// Contains reports whether id was completed for any day.
func (l *ReminderLedger) Contains(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.completed {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Record appends entry unless an entry with the same id and day exists.
// It reports whether the entry was added.
func (l *ReminderLedger) Record(ctx context.Context, entry model.CompletedReminder) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.completed {
		if e.ID == entry.ID && e.Day == entry.Day {
			return false, nil
		}
	}
	next := append(append([]model.CompletedReminder(nil), l.completed...), entry)
	if err := l.backend.SaveCompletions(ctx, next); err != nil {
		return false, fmt.Errorf("save completed reminders: %w", err)
	}
	l.completed = next
	return true, nil
}

// Forget removes the entry for id and day. It is a no-op when there is
// none.
func (l *ReminderLedger) Forget(ctx context.Context, id string, day civil.Date) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]model.CompletedReminder, 0, len(l.completed))
	for _, e := range l.completed {
		if e.ID != id || e.Day != day {
			next = append(next, e)
		}
	}
	if len(next) == len(l.completed) {
		return nil
	}
	if err := l.backend.SaveCompletions(ctx, next); err != nil {
		return fmt.Errorf("save completed reminders: %w", err)
	}
	l.completed = next
	return nil
}

// Checklist returns the ticked state of id's checklist, padded to size.
func (l *ReminderLedger) Checklist(id string, size int) []bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return resize(l.checklists[id], size)
}

// SetChecklist replaces the checklist state of id.
func (l *ReminderLedger) SetChecklist(ctx context.Context, id string, state []bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := cloneChecklists(l.checklists)
	next[id] = append([]bool(nil), state...)
	if err := l.backend.SaveChecklists(ctx, next); err != nil {
		return fmt.Errorf("save checklists: %w", err)
	}
	l.checklists = next
	return nil
}

func resize(state []bool, size int) []bool {
	out := make([]bool, size)
	copy(out, state)
	return out
}
