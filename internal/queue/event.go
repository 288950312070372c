// Package queue carries reservation lifecycle events over RabbitMQ: the
// payload, the publisher used by the services and the consumer that keeps
// the booking log.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/rental-booking/internal/model"
)

// EventType names a lifecycle transition.
type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationUpdated   EventType = "reservation.updated"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventReservationDeleted   EventType = "reservation.deleted"
	EventReminderCompleted    EventType = "reminder.completed"
)

// ReservationEvent is published after a reservation or reminder changes.
// It carries enough context for consumers to log or notify without reading
// the store.
type ReservationEvent struct {
	EventID       string    `json:"event_id"`
	Type          EventType `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	PropertyID    int       `json:"property_id"`
	PropertyName  string    `json:"property_name"`
	GuestName     string    `json:"guest_name"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	ReminderID    string    `json:"reminder_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewReservationEvent builds an event for r with a fresh id.
func NewReservationEvent(typ EventType, r model.Reservation, propertyName string, at time.Time) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          typ,
		ReservationID: r.ID,
		PropertyID:    r.PropertyID,
		PropertyName:  propertyName,
		GuestName:     r.Guest.Name,
		CheckIn:       r.CheckIn.String(),
		CheckOut:      r.CheckOut.String(),
		OccurredAt:    at.UTC(),
	}
}
