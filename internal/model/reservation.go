package model

import (
	"time"

	"cloud.google.com/go/civil"
)

// Status is the lifecycle state of a reservation.  Transitions are one
// directional: CONFIRMED may become CANCELLED, never the reverse.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// CleaningState records how the property was found when cleaning was
// marked as done.
type CleaningState string

const (
	CleaningExcellent CleaningState = "excellent"
	CleaningFair      CleaningState = "fair"
	CleaningIssue     CleaningState = "issue"
)

// Valid reports whether s is one of the known cleaning states.
func (s CleaningState) Valid() bool {
	switch s {
	case CleaningExcellent, CleaningFair, CleaningIssue:
		return true
	}
	return false
}

// Default check-in and check-out times applied when none are given.
const (
	DefaultCheckInTime  = "14:00"
	DefaultCheckOutTime = "10:00"
)

// Guest holds the identity of the person who booked a reservation.  The
// engine does not validate formats; name, national id and phone are
// required by the booking service.
type Guest struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
}

// Reservation is a booking of a Property for a guest over a date range.
// Dates are calendar days; CheckOut is always strictly after CheckIn.
//
// Fields:
//
//	ID                – timestamp-derived identifier, unique within a store.
//	PropertyID        – referenced Property.ID.
//	CheckIn/CheckOut  – first and last calendar day of the stay.
//	CheckInTime/...   – informational hh:mm hints, not used for conflicts.
//	Guest             – guest identity.
//	OccupantCount     – number of people, at least one.
//	Notes             – optional free text.
//	Status            – confirmed or cancelled.
//	CreatedAt         – immutable creation timestamp.
//	CancelledAt       – set once when cancelled.
//	CleaningDone      – cleaning after checkout has been done.
//	CleaningScheduled – cleaning for tomorrow's checkout was scheduled.
//	CleaningDoneAt    – when cleaning was marked done.
//	CleaningState     – condition reported with the cleaning.
//	Price             – optional informational price.
type Reservation struct {
	ID                int64         `json:"id"`
	PropertyID        int           `json:"property_id"`
	CheckIn           civil.Date    `json:"check_in"`
	CheckOut          civil.Date    `json:"check_out"`
	CheckInTime       string        `json:"check_in_time"`
	CheckOutTime      string        `json:"check_out_time"`
	Guest             Guest         `json:"guest"`
	OccupantCount     int           `json:"occupant_count"`
	Notes             string        `json:"notes,omitempty"`
	Status            Status        `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	CancelledAt       *time.Time    `json:"cancelled_at,omitempty"`
	CleaningDone      bool          `json:"cleaning_done"`
	CleaningScheduled bool          `json:"cleaning_scheduled"`
	CleaningDoneAt    *time.Time    `json:"cleaning_done_at,omitempty"`
	CleaningState     CleaningState `json:"cleaning_state,omitempty"`
	Price             *float64      `json:"price,omitempty"`
}

// IsCancelled reports whether the reservation has been cancelled.
func (r Reservation) IsCancelled() bool { return r.Status == StatusCancelled }

// Nights returns the number of days between check-in and check-out.
func (r Reservation) Nights() int { return r.CheckOut.DaysSince(r.CheckIn) }

// Covers reports whether day lies within [CheckIn, CheckOut] inclusive.
func (r Reservation) Covers(day civil.Date) bool {
	return !day.Before(r.CheckIn) && !day.After(r.CheckOut)
}
