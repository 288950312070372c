package occupancy

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/rental-booking/internal/model"
)

// Role is what a reservation does on a particular day.
type Role string

const (
	RoleCheckIn      Role = "check_in"
	RoleCheckOut     Role = "check_out"
	RoleIntermediate Role = "intermediate"
)

// Occupancy is one reservation touching a calendar cell.
type Occupancy struct {
	ReservationID int64  `json:"reservation_id"`
	PropertyID    int    `json:"property_id"`
	GuestName     string `json:"guest_name"`
	Role          Role   `json:"role"`
	CleaningDone  bool   `json:"cleaning_done"`
}

// DayCell is the rendering data of one calendar day.
type DayCell struct {
	Date         civil.Date  `json:"date"`
	Today        bool        `json:"today"`
	Occupied     bool        `json:"occupied"`
	CheckIn      bool        `json:"check_in"`
	CheckOut     bool        `json:"check_out"`
	Turnover     bool        `json:"turnover"`
	Intermediate bool        `json:"intermediate"`
	Completed    bool        `json:"completed"`
	Holiday      string      `json:"holiday,omitempty"`
	Occupancies  []Occupancy `json:"occupancies,omitempty"`
}

// Classify tags day from the reservations occupying it.  A day is a
// turnover when one stay checks out and another checks in.  It is
// completed when at least one stay checks out that day, every stay
// checking out has its cleaning done and the day is before today.
func Classify(day civil.Date, occupancies []model.Reservation, today civil.Date) DayCell {
	cell := DayCell{Date: day, Today: day == today, Occupied: len(occupancies) > 0}
	checkouts, cleaned := 0, 0
	for _, r := range occupancies {
		o := Occupancy{ReservationID: r.ID, PropertyID: r.PropertyID, GuestName: r.Guest.Name, CleaningDone: r.CleaningDone}
		switch {
		case day == r.CheckIn:
			cell.CheckIn = true
			o.Role = RoleCheckIn
		case day == r.CheckOut:
			cell.CheckOut = true
			o.Role = RoleCheckOut
			checkouts++
			if r.CleaningDone {
				cleaned++
			}
		default:
			cell.Intermediate = true
			o.Role = RoleIntermediate
		}
		cell.Occupancies = append(cell.Occupancies, o)
	}
	cell.Turnover = cell.CheckIn && cell.CheckOut
	cell.Completed = checkouts > 0 && cleaned == checkouts && day.Before(today)
	return cell
}

// Day projects a single day.
func Day(rs []model.Reservation, day civil.Date, propertyFilter int, today civil.Date, holidays HolidayChecker) DayCell {
	cell := Classify(day, ForDay(rs, day, propertyFilter), today)
	if holidays != nil {
		if name, ok := holidays.Holiday(day); ok {
			cell.Holiday = name
		}
	}
	return cell
}

// Month projects every day of the given month.
func Month(rs []model.Reservation, year int, month time.Month, propertyFilter int, today civil.Date, holidays HolidayChecker) []DayCell {
	first := civil.Date{Year: year, Month: month, Day: 1}
	cells := make([]DayCell, 0, 31)
	for d := first; d.Month == month; d = d.AddDays(1) {
		cells = append(cells, Day(rs, d, propertyFilter, today, holidays))
	}
	return cells
}
