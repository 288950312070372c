package model

import (
	"time"

	"cloud.google.com/go/civil"
)

// ReminderKind identifies what a reminder asks the owner to do.
type ReminderKind string

const (
	KindCleaningUrgent    ReminderKind = "cleaning-urgent"
	KindCleaningScheduled ReminderKind = "cleaning-scheduled"
	KindPrep              ReminderKind = "prep"
	KindCheckIn           ReminderKind = "checkin"
)

// IsCleaning reports whether the kind tracks cleaning on the reservation.
func (k ReminderKind) IsCleaning() bool {
	return k == KindCleaningUrgent || k == KindCleaningScheduled
}

// Priority orders reminders in the generated list.
type Priority string

const (
	PriorityUrgent   Priority = "urgent"
	PriorityTomorrow Priority = "tomorrow"
	PriorityNormal   Priority = "normal"
)

// Rank returns the sort rank of p; lower ranks sort first.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 1
	case PriorityTomorrow:
		return 2
	}
	return 3
}

// Reminder is a derived task notification.  Reminders are recomputed from
// reservations on every query and never stored; only their completion is
// recorded in the ledger.
type Reminder struct {
	ID            string       `json:"id"`
	Kind          ReminderKind `json:"kind"`
	Priority      Priority     `json:"priority"`
	TargetDate    civil.Date   `json:"target_date"`
	PropertyID    int          `json:"property_id"`
	ReservationID int64        `json:"reservation_id"`
	GuestName     string       `json:"guest_name"`
	Time          string       `json:"time,omitempty"`
	Checklist     []string     `json:"checklist,omitempty"`
}

// CompletedReminder is one entry in the completion ledger.  Completion is
// scoped to Day: a reminder with the same ID targeting another day is not
// suppressed.
type CompletedReminder struct {
	ID          string       `json:"id"`
	Day         civil.Date   `json:"day"`
	Kind        ReminderKind `json:"kind"`
	CompletedAt time.Time    `json:"completed_at"`
}
