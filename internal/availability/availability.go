// Package availability decides whether a property can take a booking.
//
// Two distinct rules live here.  Booking validation (IsAvailable,
// FindConflict) treats a stay as half-open so a checkout and another
// guest's check-in may share a day.  Range queries (CheckRange, Search,
// Suggest) are day-granular and inclusive: a day touched by any stay,
// including its checkout day, counts as taken.  Both operate on a
// snapshot of reservations and perform no I/O.
package availability

import (
	"math"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/rental-booking/internal/apperror"
	"github.com/iliyamo/rental-booking/internal/dates"
	"github.com/iliyamo/rental-booking/internal/model"
)

// ValidateRange rejects a range whose end is not strictly after its start.
func ValidateRange(start, end civil.Date) error {
	if !start.IsValid() || !end.IsValid() {
		return apperror.Validation("check-in and check-out dates are required")
	}
	if !end.After(start) {
		return apperror.Validation("check-out %s must be after check-in %s", end, start)
	}
	return nil
}

// FindConflict returns the first confirmed reservation on propertyID that
// collides with [checkIn, checkOut], or nil.  The reservation whose ID
// equals excludeID is ignored so a stay can be edited in place; pass 0 to
// exclude nothing.
func FindConflict(rs []model.Reservation, propertyID int, checkIn, checkOut civil.Date, excludeID int64) (*model.Reservation, error) {
	if err := ValidateRange(checkIn, checkOut); err != nil {
		return nil, err
	}
	for i := range rs {
		r := rs[i]
		if r.PropertyID != propertyID || r.IsCancelled() {
			continue
		}
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if overlaps(checkIn, checkOut, r.CheckIn, r.CheckOut) {
			return &r, nil
		}
	}
	return nil, nil
}

// IsAvailable reports whether no confirmed reservation on propertyID
// collides with the proposed stay.
func IsAvailable(rs []model.Reservation, propertyID int, checkIn, checkOut civil.Date, excludeID int64) (bool, error) {
	c, err := FindConflict(rs, propertyID, checkIn, checkOut, excludeID)
	if err != nil {
		return false, err
	}
	return c == nil, nil
}

// overlaps applies the booking rules in order against one existing stay.
func overlaps(in, out, exIn, exOut civil.Date) bool {
	// exact mirrored turnover
	if in == exOut && out == exIn {
		return false
	}
	// starts inside [exIn, exOut)
	if !in.Before(exIn) && in.Before(exOut) {
		return true
	}
	// ends inside (exIn, exOut]
	if out.After(exIn) && !out.After(exOut) {
		return true
	}
	// contains the existing stay
	if !in.After(exIn) && !out.Before(exOut) {
		return true
	}
	return false
}

// RangeResult describes how much of a date window a property has free.
type RangeResult struct {
	PropertyID          int                `json:"property_id"`
	FullyAvailable      bool               `json:"fully_available"`
	Available           bool               `json:"available"`
	AvailableDays       int                `json:"available_days"`
	ConflictingDays     int                `json:"conflicting_days"`
	TotalDays           int                `json:"total_days"`
	AvailablePercent    int                `json:"available_percent"`
	ConflictReservation *model.Reservation `json:"conflict_reservation,omitempty"`
}

// CheckRange walks every day of [start, end] inclusive and counts the days
// not covered by a confirmed reservation on propertyID.  A day is covered
// when checkIn <= day <= checkOut.  ConflictReservation is the last
// covering reservation seen.
func CheckRange(rs []model.Reservation, propertyID int, start, end civil.Date) (RangeResult, error) {
	if err := ValidateRange(start, end); err != nil {
		return RangeResult{}, err
	}
	res := RangeResult{PropertyID: propertyID}
	for _, day := range dates.Span(start, end) {
		res.TotalDays++
		conflict := false
		for i := range rs {
			r := rs[i]
			if r.PropertyID != propertyID || r.IsCancelled() {
				continue
			}
			if r.Covers(day) {
				conflict = true
				res.ConflictReservation = &r
				break
			}
		}
		if conflict {
			res.ConflictingDays++
		}
	}
	res.AvailableDays = res.TotalDays - res.ConflictingDays
	res.FullyAvailable = res.ConflictingDays == 0
	res.Available = res.AvailableDays > 0
	res.AvailablePercent = percent(res.AvailableDays, res.TotalDays)
	return res, nil
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
