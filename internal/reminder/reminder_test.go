package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-booking/internal/apperror"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/repository"
)

var today = civil.Date{Year: 2024, Month: 6, Day: 10}

func stay(id int64, in, out civil.Date) model.Reservation {
	return model.Reservation{
		ID:         id,
		PropertyID: 1,
		CheckIn:    in,
		CheckOut:   out,
		Guest:      model.Guest{Name: "Guest"},
		Status:     model.StatusConfirmed,
	}
}

func ids(rs []model.Reminder) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

type ledgerStub map[string]civil.Date

func (l ledgerStub) IsCompleted(id string, day civil.Date) bool {
	d, ok := l[id]
	return ok && d == day
}

func TestGenerateOrdersByPriority(t *testing.T) {
	rs := []model.Reservation{
		stay(3, today.AddDays(3), today.AddDays(6)),
		stay(2, today.AddDays(2), today.AddDays(4)),
		stay(1, today.AddDays(-4), today),
	}
	got := Generate(rs, nil, today)

	require.Equal(t, []string{"cleaning_1_today", "prep_2", "prep_3"}, ids(got))
	assert.Equal(t, model.PriorityUrgent, got[0].Priority)
	assert.Equal(t, model.PriorityTomorrow, got[1].Priority)
	assert.Equal(t, model.PriorityNormal, got[2].Priority)
}

func TestGenerateKinds(t *testing.T) {
	rs := []model.Reservation{
		stay(1, today.AddDays(-3), today),
		stay(2, today.AddDays(-2), today.AddDays(1)),
		stay(3, today, today.AddDays(4)),
		stay(4, today.AddDays(1), today.AddDays(2)),
	}
	got := Generate(rs, nil, today)

	byID := map[string]model.Reminder{}
	for _, r := range got {
		byID[r.ID] = r
	}
	require.Len(t, byID, 4)

	urgent := byID["cleaning_1_today"]
	assert.Equal(t, model.KindCleaningUrgent, urgent.Kind)
	assert.Equal(t, today, urgent.TargetDate)
	assert.Equal(t, model.DefaultCheckOutTime, urgent.Time)
	assert.Len(t, urgent.Checklist, 8)

	sched := byID["cleaning_2_tomorrow"]
	assert.Equal(t, model.PriorityTomorrow, sched.Priority)
	assert.Equal(t, today.AddDays(1), sched.TargetDate)

	checkin := byID["checkin_3_today"]
	assert.Equal(t, model.PriorityUrgent, checkin.Priority)
	assert.Empty(t, checkin.Checklist)

	prep := byID["prep_4"]
	assert.Equal(t, model.PriorityUrgent, prep.Priority)
	assert.Equal(t, today.AddDays(1), prep.TargetDate)
	assert.Equal(t, PrepChecklist, prep.Checklist)
}

func TestGenerateSkipsCancelledCleanedAndFar(t *testing.T) {
	cancelled := stay(1, today.AddDays(-2), today)
	cancelled.Status = model.StatusCancelled
	cleaned := stay(2, today.AddDays(-2), today)
	cleaned.CleaningDone = true
	scheduled := stay(3, today.AddDays(-2), today.AddDays(1))
	scheduled.CleaningScheduled = true

	rs := []model.Reservation{cancelled, cleaned, scheduled, stay(4, today.AddDays(4), today.AddDays(5))}
	assert.Empty(t, Generate(rs, nil, today))
}

func TestGenerateDropsCompletedForSameDayOnly(t *testing.T) {
	rs := []model.Reservation{stay(7, today.AddDays(2), today.AddDays(3))}

	done := ledgerStub{"prep_7": today.AddDays(2)}
	assert.Empty(t, Generate(rs, done, today))

	stale := ledgerStub{"prep_7": today.AddDays(9)}
	assert.Equal(t, []string{"prep_7"}, ids(Generate(rs, stale, today)))
}

func TestChecklistsAreNotShared(t *testing.T) {
	rs := []model.Reservation{stay(1, today.AddDays(-1), today)}
	got := Generate(rs, nil, today)
	got[0].Checklist[0] = "changed"
	assert.Equal(t, "Change sheets and pillowcases", CleaningChecklist[0])
}

func TestCountUrgent(t *testing.T) {
	rs := []model.Reservation{
		stay(1, today.AddDays(-1), today),
		stay(2, today, today.AddDays(2)),
		stay(3, today.AddDays(3), today.AddDays(4)),
	}
	assert.Equal(t, 2, CountUrgent(Generate(rs, nil, today)))
}

// flakyBackend fails reservation or completion writes on demand.
type flakyBackend struct {
	*repository.MemoryBackend
	failReservations bool
	failCompletions  bool
}

func (f *flakyBackend) SaveReservations(ctx context.Context, rs []model.Reservation) error {
	if f.failReservations {
		return errors.New("write refused")
	}
	return f.MemoryBackend.SaveReservations(ctx, rs)
}

func (f *flakyBackend) SaveCompletions(ctx context.Context, entries []model.CompletedReminder) error {
	if f.failCompletions {
		return errors.New("write refused")
	}
	return f.MemoryBackend.SaveCompletions(ctx, entries)
}

func newService(t *testing.T, rs ...model.Reservation) (*Service, *repository.ReservationStore, *repository.ReminderLedger) {
	t.Helper()
	return newServiceOn(t, repository.NewMemoryBackend(rs...))
}

func newServiceOn(t *testing.T, backend repository.Persistence) (*Service, *repository.ReservationStore, *repository.ReminderLedger) {
	t.Helper()
	ctx := context.Background()
	store := repository.NewReservationStore(backend)
	require.NoError(t, store.Load(ctx))
	ledger := repository.NewReminderLedger(backend)
	require.NoError(t, ledger.Load(ctx))

	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	svc := NewService(store, ledger, Options{
		Properties: []model.Property{{ID: 1, Name: "Casa"}},
		Now:        func() time.Time { return now },
		Location:   time.UTC,
	})
	return svc, store, ledger
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, store, ledger := newService(t, stay(1, today.AddDays(-2), today))

	require.NoError(t, svc.MarkComplete(ctx, "cleaning_1_today"))
	first, err := store.Get(1)
	require.NoError(t, err)
	assert.True(t, first.CleaningDone)
	require.NotNil(t, first.CleaningDoneAt)

	require.NoError(t, svc.MarkComplete(ctx, "cleaning_1_today"))
	second, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, ledger.Completed(), 1)
	assert.Empty(t, svc.List())
}

func TestMarkCompleteScheduledAndPrep(t *testing.T) {
	ctx := context.Background()
	svc, store, ledger := newService(t,
		stay(1, today.AddDays(-2), today.AddDays(1)),
		stay(2, today.AddDays(2), today.AddDays(5)),
	)

	require.NoError(t, svc.MarkComplete(ctx, "cleaning_1_tomorrow"))
	r, _ := store.Get(1)
	assert.True(t, r.CleaningScheduled)
	assert.False(t, r.CleaningDone)

	require.NoError(t, svc.MarkComplete(ctx, "prep_2"))
	assert.True(t, ledger.IsCompleted("prep_2", today.AddDays(2)))
	assert.Empty(t, svc.List())
}

func TestMarkCompleteUnknown(t *testing.T) {
	svc, _, _ := newService(t)
	err := svc.MarkComplete(context.Background(), "prep_404")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestChecklistTracking(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, stay(5, today.AddDays(3), today.AddDays(5)))

	view, err := svc.SetChecklistItem(ctx, "prep_5", 2, true)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Completed)
	assert.True(t, view.Items[2].Done)

	_, err = svc.SetChecklistItem(ctx, "prep_5", 8, true)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	view, err = svc.Checklist("prep_5")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Completed)

	view, err = svc.CompleteChecklist(ctx, "prep_5")
	require.NoError(t, err)
	assert.Equal(t, len(PrepChecklist), view.Completed)
	assert.Empty(t, svc.List())
}

func TestCompleteChecklistWithoutItems(t *testing.T) {
	svc, _, _ := newService(t, stay(6, today, today.AddDays(2)))
	_, err := svc.CompleteChecklist(context.Background(), "checkin_6_today")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestMarkCompleteAfterCleaningFlaggedOnReservation(t *testing.T) {
	ctx := context.Background()
	svc, store, ledger := newService(t,
		stay(1, today.AddDays(-2), today),
		stay(2, today.AddDays(-1), today.AddDays(1)),
		stay(3, today.AddDays(-5), today.AddDays(-1)),
	)
	_, err := store.Update(ctx, 1, func(r *model.Reservation) error {
		r.CleaningDone = true
		return nil
	})
	require.NoError(t, err)
	_, err = store.Update(ctx, 2, func(r *model.Reservation) error {
		r.CleaningScheduled = true
		return nil
	})
	require.NoError(t, err)

	assert.NoError(t, svc.MarkComplete(ctx, "cleaning_1_today"))
	assert.NoError(t, svc.MarkComplete(ctx, "cleaning_2_tomorrow"))
	assert.Empty(t, ledger.Completed())

	err = svc.MarkComplete(ctx, "cleaning_3_today")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	err = svc.MarkComplete(ctx, "cleaning_2_today")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMarkCompleteWithdrawsEntryWhenFlagFails(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{MemoryBackend: repository.NewMemoryBackend(stay(1, today.AddDays(-2), today))}
	svc, store, ledger := newServiceOn(t, backend)

	backend.failReservations = true
	assert.Error(t, svc.MarkComplete(ctx, "cleaning_1_today"))
	assert.Empty(t, ledger.Completed())
	stored, err := backend.LoadCompletions(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
	r, _ := store.Get(1)
	assert.False(t, r.CleaningDone)
	assert.Equal(t, []string{"cleaning_1_today"}, ids(svc.List()))

	backend.failReservations = false
	require.NoError(t, svc.MarkComplete(ctx, "cleaning_1_today"))
	assert.Len(t, ledger.Completed(), 1)
}

func TestMarkCompleteLedgerFailureLeavesReservation(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{MemoryBackend: repository.NewMemoryBackend(stay(1, today.AddDays(-2), today))}
	svc, store, _ := newServiceOn(t, backend)

	backend.failCompletions = true
	assert.Error(t, svc.MarkComplete(ctx, "cleaning_1_today"))
	r, _ := store.Get(1)
	assert.False(t, r.CleaningDone)
	assert.Nil(t, r.CleaningDoneAt)
}

func TestCompleteChecklistRestoresItemsOnFailure(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{MemoryBackend: repository.NewMemoryBackend(stay(5, today.AddDays(3), today.AddDays(5)))}
	svc, _, _ := newServiceOn(t, backend)

	_, err := svc.SetChecklistItem(ctx, "prep_5", 2, true)
	require.NoError(t, err)

	backend.failCompletions = true
	_, err = svc.CompleteChecklist(ctx, "prep_5")
	assert.Error(t, err)

	view, err := svc.Checklist("prep_5")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Completed)
	assert.True(t, view.Items[2].Done)
}

func TestCleaningIDRoundTrip(t *testing.T) {
	for _, kind := range []model.ReminderKind{model.KindCleaningUrgent, model.KindCleaningScheduled} {
		id, k, ok := parseCleaningID(cleaningID(1717000000123, kind))
		require.True(t, ok)
		assert.Equal(t, int64(1717000000123), id)
		assert.Equal(t, kind, k)
	}
	for _, bad := range []string{"prep_1", "cleaning_x_today", "cleaning_1_yesterday", "checkin_1_today"} {
		_, _, ok := parseCleaningID(bad)
		assert.False(t, ok, bad)
	}
}
