package occupancy

import (
	"time"

	"cloud.google.com/go/civil"
	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ar"
	"github.com/rickar/cal/v2/us"
)

// HolidayChecker reports whether a day is a public holiday.
type HolidayChecker interface {
	Holiday(day civil.Date) (string, bool)
}

// Calendar adapts a rickar/cal business calendar.
type Calendar struct {
	bc *cal.BusinessCalendar
}

// NewCalendar returns a calendar holding the given holidays.
func NewCalendar(holidays ...*cal.Holiday) *Calendar {
	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(holidays...)
	return &Calendar{bc: bc}
}

// NewUSCalendar returns a calendar of US federal holidays.
func NewUSCalendar() *Calendar {
	return NewCalendar(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
}

// NewARCalendar returns a calendar of Argentine national holidays.
func NewARCalendar() *Calendar {
	return NewCalendar(ar.Holidays...)
}

// HolidayCalendar returns the calendar registered under name, or nil for
// "none" and unknown names.
func HolidayCalendar(name string) HolidayChecker {
	switch name {
	case "ar":
		return NewARCalendar()
	case "us":
		return NewUSCalendar()
	}
	return nil
}

// Holiday implements HolidayChecker.
func (c *Calendar) Holiday(day civil.Date) (string, bool) {
	actual, observed, h := c.bc.IsHoliday(day.In(time.UTC).Add(12 * time.Hour))
	if (!actual && !observed) || h == nil {
		return "", false
	}
	return h.Name, true
}
