// Package service orchestrates the reservation lifecycle: validation,
// availability checks, persistence through the store and lifecycle events.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/apperror"
	"github.com/iliyamo/rental-booking/internal/availability"
	"github.com/iliyamo/rental-booking/internal/dates"
	"github.com/iliyamo/rental-booking/internal/logger"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/queue"
	"github.com/iliyamo/rental-booking/internal/repository"
)

// ReservationInput carries the caller-supplied fields of a reservation.
// Dates are "YYYY-MM-DD" strings (or RFC 3339 timestamps) and are
// normalized in the service location.
type ReservationInput struct {
	PropertyID    int      `json:"property_id" validate:"required,min=1"`
	CheckIn       string   `json:"check_in" validate:"required"`
	CheckOut      string   `json:"check_out" validate:"required"`
	CheckInTime   string   `json:"check_in_time"`
	CheckOutTime  string   `json:"check_out_time"`
	GuestName     string   `json:"guest_name" validate:"required"`
	NationalID    string   `json:"national_id" validate:"required"`
	Phone         string   `json:"phone" validate:"required"`
	Email         string   `json:"email"`
	OccupantCount int      `json:"occupant_count" validate:"gte=0"`
	Notes         string   `json:"notes"`
	Price         *float64 `json:"price"` // create only
}

func (in *ReservationInput) trim() {
	in.CheckIn = strings.TrimSpace(in.CheckIn)
	in.CheckOut = strings.TrimSpace(in.CheckOut)
	in.CheckInTime = strings.TrimSpace(in.CheckInTime)
	in.CheckOutTime = strings.TrimSpace(in.CheckOutTime)
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.NationalID = strings.TrimSpace(in.NationalID)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
}

// Options configures optional collaborators of BookingService.
type Options struct {
	Publisher queue.Publisher
	Now       func() time.Time
	Location  *time.Location
}

// BookingService creates, edits, cancels and deletes reservations. The
// availability check and the write happen under one lock so two concurrent
// requests cannot both book the same nights.
type BookingService struct {
	mu        sync.Mutex
	store     *repository.ReservationStore
	props     []model.Property
	publisher queue.Publisher
	validate  *validator.Validate
	now       func() time.Time
	loc       *time.Location
}

// NewBookingService returns a service over store for the given properties.
// It panics if store is nil.
func NewBookingService(store *repository.ReservationStore, props []model.Property, opts Options) *BookingService {
	if store == nil {
		panic("service.NewBookingService: nil store")
	}
	s := &BookingService{
		store:     store,
		props:     props,
		publisher: opts.Publisher,
		validate:  validator.New(),
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

// Properties returns the configured property list.
func (s *BookingService) Properties() []model.Property { return s.props }

// Location returns the zone dates are interpreted in.
func (s *BookingService) Location() *time.Location { return s.loc }

// Today returns the current calendar day in the service location.
func (s *BookingService) Today() civil.Date { return dates.DayOf(s.now(), s.loc) }

// Snapshot returns the current reservation list.
func (s *BookingService) Snapshot() []model.Reservation { return s.store.Snapshot() }

// Get returns the reservation with the given id.
func (s *BookingService) Get(id int64) (model.Reservation, error) {
	r, err := s.store.Get(id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Reservation{}, apperror.NotFound("reservation %d not found", id)
	}
	return r, err
}

// Create validates in, checks availability and stores a new confirmed
// reservation.
func (s *BookingService) Create(ctx context.Context, in ReservationInput) (model.Reservation, error) {
	checkIn, checkOut, err := s.parseInput(&in)
	if err != nil {
		return model.Reservation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureAvailable(in.PropertyID, checkIn, checkOut, 0); err != nil {
		return model.Reservation{}, err
	}
	now := s.now()
	r := model.Reservation{
		ID:         s.store.NextID(now),
		PropertyID: in.PropertyID,
		Status:     model.StatusConfirmed,
		CreatedAt:  now,
		Price:      in.Price,
	}
	apply(&r, in, checkIn, checkOut)

	if err := s.store.Insert(ctx, r); err != nil {
		return model.Reservation{}, err
	}
	s.log(r).Info("reservation created")
	s.publish(queue.EventReservationCreated, r)
	return r, nil
}

// Update replaces the editable fields of reservation id. The id, creation
// time, cleaning fields and price are kept; in.Price is ignored.
// Cancelled reservations cannot be edited.
func (s *BookingService) Update(ctx context.Context, id int64, in ReservationInput) (model.Reservation, error) {
	checkIn, checkOut, err := s.parseInput(&in)
	if err != nil {
		return model.Reservation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.Get(id)
	if err != nil {
		return model.Reservation{}, err
	}
	if existing.IsCancelled() {
		return model.Reservation{}, apperror.Conflict("reservation %d is cancelled and cannot be edited", id)
	}
	if err := s.ensureAvailable(in.PropertyID, checkIn, checkOut, id); err != nil {
		return model.Reservation{}, err
	}

	r, err := s.store.Update(ctx, id, func(r *model.Reservation) error {
		r.PropertyID = in.PropertyID
		apply(r, in, checkIn, checkOut)
		return nil
	})
	if err != nil {
		return model.Reservation{}, s.storeErr(id, err)
	}
	s.log(r).Info("reservation updated")
	s.publish(queue.EventReservationUpdated, r)
	return r, nil
}

// Cancel marks reservation id as cancelled. Cancelling twice keeps the
// first cancellation time.
func (s *BookingService) Cancel(ctx context.Context, id int64) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.Get(id)
	if err != nil {
		return model.Reservation{}, err
	}
	if existing.IsCancelled() {
		return existing, nil
	}
	now := s.now()
	r, err := s.store.Update(ctx, id, func(r *model.Reservation) error {
		r.Status = model.StatusCancelled
		r.CancelledAt = &now
		return nil
	})
	if err != nil {
		return model.Reservation{}, s.storeErr(id, err)
	}
	s.log(r).Info("reservation cancelled")
	s.publish(queue.EventReservationCancelled, r)
	return r, nil
}

// Delete removes reservation id permanently.
func (s *BookingService) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeErr(id, err)
	}
	s.log(r).Info("reservation deleted")
	s.publish(queue.EventReservationDeleted, r)
	return nil
}

// MarkCleaningDone records that the property was cleaned after
// reservation id checked out, with the condition it was found in.
func (s *BookingService) MarkCleaningDone(ctx context.Context, id int64, state model.CleaningState) (model.Reservation, error) {
	if !state.Valid() {
		return model.Reservation{}, apperror.Validation("cleaning state must be one of excellent, fair or issue")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	r, err := s.store.Update(ctx, id, func(r *model.Reservation) error {
		if r.IsCancelled() {
			return apperror.Conflict("reservation %d is cancelled", id)
		}
		r.CleaningDone = true
		r.CleaningDoneAt = &now
		r.CleaningState = state
		return nil
	})
	if err != nil {
		return model.Reservation{}, s.storeErr(id, err)
	}
	s.log(r).WithField("state", state).Info("cleaning marked done")
	return r, nil
}

// CheckAvailability reports whether the property is free for the given
// stay, ignoring excludeID. The conflicting reservation is returned when
// there is one.
func (s *BookingService) CheckAvailability(propertyID int, checkIn, checkOut civil.Date, excludeID int64) (*model.Reservation, error) {
	if _, ok := model.FindProperty(s.props, propertyID); !ok {
		return nil, apperror.NotFound("property %d not found", propertyID)
	}
	return availability.FindConflict(s.store.Snapshot(), propertyID, checkIn, checkOut, excludeID)
}

func (s *BookingService) parseInput(in *ReservationInput) (civil.Date, civil.Date, error) {
	in.trim()
	if err := s.validate.Struct(in); err != nil {
		return civil.Date{}, civil.Date{}, validationError(err)
	}
	if _, ok := model.FindProperty(s.props, in.PropertyID); !ok {
		return civil.Date{}, civil.Date{}, apperror.Validation("unknown property %d", in.PropertyID)
	}
	checkIn, err := dates.ParseDay(in.CheckIn, s.loc)
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	checkOut, err := dates.ParseDay(in.CheckOut, s.loc)
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	if err := availability.ValidateRange(checkIn, checkOut); err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	return checkIn, checkOut, nil
}

func (s *BookingService) ensureAvailable(propertyID int, checkIn, checkOut civil.Date, excludeID int64) error {
	conflict, err := availability.FindConflict(s.store.Snapshot(), propertyID, checkIn, checkOut, excludeID)
	if err != nil {
		return err
	}
	if conflict != nil {
		return apperror.Conflict("property is already booked from %s to %s by %s",
			conflict.CheckIn, conflict.CheckOut, conflict.Guest.Name)
	}
	return nil
}

func (s *BookingService) storeErr(id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("reservation %d not found", id)
	}
	return err
}

func (s *BookingService) log(r model.Reservation) *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"reservation_id": r.ID,
		"property_id":    r.PropertyID,
		"check_in":       r.CheckIn.String(),
		"check_out":      r.CheckOut.String(),
	})
}

func (s *BookingService) publish(typ queue.EventType, r model.Reservation) {
	name := ""
	if p, ok := model.FindProperty(s.props, r.PropertyID); ok {
		name = p.Name
	}
	queue.PublishAsync(s.publisher, queue.NewReservationEvent(typ, r, name, s.now()))
}

func apply(r *model.Reservation, in ReservationInput, checkIn, checkOut civil.Date) {
	r.CheckIn = checkIn
	r.CheckOut = checkOut
	r.CheckInTime = orDefault(in.CheckInTime, model.DefaultCheckInTime)
	r.CheckOutTime = orDefault(in.CheckOutTime, model.DefaultCheckOutTime)
	r.Guest = model.Guest{Name: in.GuestName, NationalID: in.NationalID, Phone: in.Phone, Email: in.Email}
	r.OccupantCount = in.OccupantCount
	if r.OccupantCount == 0 {
		r.OccupantCount = 1
	}
	r.Notes = in.Notes
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// validationError flattens validator errors into one apperror message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Wrap(apperror.KindValidation, err, "invalid input")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	sort.Strings(msgs)
	return apperror.Validation("invalid input: %s", strings.Join(msgs, "; "))
}
