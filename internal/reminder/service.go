package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/apperror"
	"github.com/iliyamo/rental-booking/internal/dates"
	"github.com/iliyamo/rental-booking/internal/logger"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/queue"
	"github.com/iliyamo/rental-booking/internal/repository"
)

// ChecklistItem is one line of a reminder checklist with its ticked state.
type ChecklistItem struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// ChecklistView is the checklist of a reminder as shown to the owner.
type ChecklistView struct {
	ReminderID string          `json:"reminder_id"`
	Items      []ChecklistItem `json:"items"`
	Completed  int             `json:"completed"`
}

// Service completes reminders and tracks checklist state on top of the
// reservation store and the reminder ledger.
type Service struct {
	mu        sync.Mutex
	store     *repository.ReservationStore
	ledger    *repository.ReminderLedger
	props     []model.Property
	publisher queue.Publisher
	now       func() time.Time
	loc       *time.Location
}

// Options configures optional collaborators of Service.
type Options struct {
	Properties []model.Property
	Publisher  queue.Publisher
	Now        func() time.Time
	Location   *time.Location
}

// NewService returns a Service. It panics if store or ledger is nil.
func NewService(store *repository.ReservationStore, ledger *repository.ReminderLedger, opts Options) *Service {
	if store == nil || ledger == nil {
		panic("reminder.NewService: nil dependency")
	}
	s := &Service{
		store:     store,
		ledger:    ledger,
		props:     opts.Properties,
		publisher: opts.Publisher,
		now:       opts.Now,
		loc:       opts.Location,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	return s
}

// Today returns the current calendar day in the configured location.
func (s *Service) Today() civil.Date { return dates.DayOf(s.now(), s.loc) }

// List returns the pending reminders for today.
func (s *Service) List() []model.Reminder {
	return Generate(s.store.Snapshot(), s.ledger, s.Today())
}

// find looks id up among today's reminders, completed ones included.
func (s *Service) find(id string) (model.Reminder, bool) {
	for _, r := range generateAll(s.store.Snapshot(), s.Today()) {
		if r.ID == id {
			return r, true
		}
	}
	return model.Reminder{}, false
}

// MarkComplete records id as done for its target day. Completing a cleaning
// reminder also flips the matching flag on the reservation. Completing an
// already recorded reminder is a no-op.
func (s *Service) MarkComplete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markComplete(ctx, id)
}

func (s *Service) markComplete(ctx context.Context, id string) error {
	rem, ok := s.find(id)
	if !ok {
		if s.ledger.Contains(id) || s.alreadyFlagged(id) {
			return nil
		}
		return apperror.NotFound("reminder %s not found", id)
	}
	if s.ledger.IsCompleted(rem.ID, rem.TargetDate) {
		return nil
	}
	if _, err := s.store.Get(rem.ReservationID); err != nil {
		return s.reservationErr(rem, err)
	}
	now := s.now()

	// The ledger entry goes first and is withdrawn if the reservation
	// cannot be flagged.
	if _, err := s.ledger.Record(ctx, model.CompletedReminder{
		ID:          rem.ID,
		Day:         rem.TargetDate,
		Kind:        rem.Kind,
		CompletedAt: now,
	}); err != nil {
		return err
	}
	res, err := s.flag(ctx, rem, now)
	if err != nil {
		if ferr := s.ledger.Forget(ctx, rem.ID, rem.TargetDate); ferr != nil {
			logger.Log.WithError(ferr).WithField("reminder_id", rem.ID).Error("could not withdraw reminder completion")
		}
		return s.reservationErr(rem, err)
	}

	logger.Log.WithFields(logrus.Fields{"reminder_id": rem.ID, "kind": rem.Kind}).Info("reminder completed")
	name := ""
	if p, ok := model.FindProperty(s.props, res.PropertyID); ok {
		name = p.Name
	}
	ev := queue.NewReservationEvent(queue.EventReminderCompleted, res, name, now)
	ev.ReminderID = rem.ID
	queue.PublishAsync(s.publisher, ev)
	return nil
}

// flag sets the cleaning flag a cleaning reminder tracks. Other kinds leave
// the reservation untouched.
func (s *Service) flag(ctx context.Context, rem model.Reminder, now time.Time) (model.Reservation, error) {
	if !rem.Kind.IsCleaning() {
		return s.store.Get(rem.ReservationID)
	}
	return s.store.Update(ctx, rem.ReservationID, func(r *model.Reservation) error {
		if rem.Kind == model.KindCleaningScheduled {
			r.CleaningScheduled = true
			return nil
		}
		r.CleaningDone = true
		if r.CleaningDoneAt == nil {
			at := now
			r.CleaningDoneAt = &at
		}
		return nil
	})
}

// alreadyFlagged reports whether id names a cleaning reminder whose flag was
// set on the reservation directly, which stops the reminder from being
// generated.
func (s *Service) alreadyFlagged(id string) bool {
	resID, kind, ok := parseCleaningID(id)
	if !ok {
		return false
	}
	r, err := s.store.Get(resID)
	if err != nil || r.IsCancelled() {
		return false
	}
	today := s.Today()
	if kind == model.KindCleaningScheduled {
		return r.CheckOut == today.AddDays(1) && r.CleaningScheduled
	}
	return r.CheckOut == today && r.CleaningDone
}

func (s *Service) reservationErr(rem model.Reminder, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("reservation %d not found", rem.ReservationID)
	}
	return err
}

// Checklist returns the checklist of reminder id with its ticked state.
func (s *Service) Checklist(id string) (ChecklistView, error) {
	rem, ok := s.find(id)
	if !ok {
		return ChecklistView{}, apperror.NotFound("reminder %s not found", id)
	}
	return s.view(rem), nil
}

// SetChecklistItem ticks or unticks item index of reminder id.
func (s *Service) SetChecklistItem(ctx context.Context, id string, index int, done bool) (ChecklistView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rem, ok := s.find(id)
	if !ok {
		return ChecklistView{}, apperror.NotFound("reminder %s not found", id)
	}
	if index < 0 || index >= len(rem.Checklist) {
		return ChecklistView{}, apperror.Validation("checklist item %d out of range", index)
	}
	state := s.ledger.Checklist(id, len(rem.Checklist))
	state[index] = done
	if err := s.ledger.SetChecklist(ctx, id, state); err != nil {
		return ChecklistView{}, err
	}
	return s.view(rem), nil
}

// CompleteChecklist ticks every item of reminder id and completes it.
func (s *Service) CompleteChecklist(ctx context.Context, id string) (ChecklistView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rem, ok := s.find(id)
	if !ok {
		return ChecklistView{}, apperror.NotFound("reminder %s not found", id)
	}
	if len(rem.Checklist) == 0 {
		return ChecklistView{}, apperror.Validation("reminder %s has no checklist", id)
	}
	prev := s.ledger.Checklist(id, len(rem.Checklist))
	state := make([]bool, len(rem.Checklist))
	for i := range state {
		state[i] = true
	}
	if err := s.ledger.SetChecklist(ctx, id, state); err != nil {
		return ChecklistView{}, err
	}
	view := s.view(rem)
	if err := s.markComplete(ctx, id); err != nil {
		if rerr := s.ledger.SetChecklist(ctx, id, prev); rerr != nil {
			logger.Log.WithError(rerr).WithField("reminder_id", id).Error("could not restore checklist")
		}
		return ChecklistView{}, err
	}
	return view, nil
}

func (s *Service) view(rem model.Reminder) ChecklistView {
	state := s.ledger.Checklist(rem.ID, len(rem.Checklist))
	v := ChecklistView{ReminderID: rem.ID, Items: make([]ChecklistItem, len(rem.Checklist))}
	for i, label := range rem.Checklist {
		v.Items[i] = ChecklistItem{Index: i, Label: label, Done: state[i]}
		if state[i] {
			v.Completed++
		}
	}
	return v
}
