// Package occupancy projects reservations onto calendar days and computes
// occupancy statistics.  Like the availability engine it works on a
// snapshot and is day-granular: a stay occupies every day from its
// check-in through its check-out inclusive.
package occupancy

import (
	"math"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/rental-booking/internal/model"
)

// DefaultWindowDays is the trailing window used by Rate when none is set.
const DefaultWindowDays = 30

// ForDay returns the confirmed reservations occupying day.  A non-zero
// propertyFilter restricts the result to that property.
func ForDay(rs []model.Reservation, day civil.Date, propertyFilter int) []model.Reservation {
	var out []model.Reservation
	for _, r := range rs {
		if r.IsCancelled() {
			continue
		}
		if propertyFilter > 0 && r.PropertyID != propertyFilter {
			continue
		}
		if r.Covers(day) {
			out = append(out, r)
		}
	}
	return out
}

// Rate approximates how busy propertyID has been: the full length of every
// confirmed stay whose check-in is on or after today-windowDays is summed,
// divided by windowDays and capped at 100.  Stays are not clipped to the
// window, so long or future stays inflate the figure and stays that began
// before the window are ignored.
func Rate(rs []model.Reservation, propertyID int, today civil.Date, windowDays int) int {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	since := today.AddDays(-windowDays)
	nights := 0
	for _, r := range rs {
		if r.PropertyID != propertyID || r.IsCancelled() {
			continue
		}
		if r.CheckIn.Before(since) {
			continue
		}
		nights += r.Nights()
	}
	pct := int(math.Round(float64(nights) / float64(windowDays) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// State is the position of a reservation relative to today.
type State string

const (
	StateCancelled  State = "cancelled"
	StateCompleted  State = "completed"
	StateInProgress State = "in_progress"
	StateUpcoming   State = "upcoming"
)

// Active reports whether s is one of the not-yet-finished states.
func (s State) Active() bool { return s == StateInProgress || s == StateUpcoming }

// StateOf classifies r: cancelled first, then completed when the checkout
// day is before today, in progress while today is within the stay and
// upcoming otherwise.
func StateOf(r model.Reservation, today civil.Date) State {
	switch {
	case r.IsCancelled():
		return StateCancelled
	case r.CheckOut.Before(today):
		return StateCompleted
	case r.Covers(today):
		return StateInProgress
	default:
		return StateUpcoming
	}
}
