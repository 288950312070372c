package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/apperror"
	"github.com/iliyamo/rental-booking/internal/availability"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/occupancy"
	"github.com/iliyamo/rental-booking/internal/service"
)

// CalendarHandler serves the read-only projections: properties,
// availability, calendar cells and statistics.
type CalendarHandler struct {
	Bookings   *service.BookingService
	Holidays   occupancy.HolidayChecker
	WindowDays int
}

// NewCalendarHandler panics if svc is nil. holidays may be nil.
func NewCalendarHandler(svc *service.BookingService, holidays occupancy.HolidayChecker, windowDays int) *CalendarHandler {
	if svc == nil {
		panic("handler.NewCalendarHandler: nil service")
	}
	if windowDays < 1 {
		windowDays = occupancy.DefaultWindowDays
	}
	return &CalendarHandler{Bookings: svc, Holidays: holidays, WindowDays: windowDays}
}

// Properties lists the managed properties.
func (h *CalendarHandler) Properties(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Bookings.Properties())
}

// PropertySummaries returns per-property totals and occupancy rate.
func (h *CalendarHandler) PropertySummaries(c echo.Context) error {
	return c.JSON(http.StatusOK, occupancy.PropertySummaries(
		h.Bookings.Snapshot(), h.Bookings.Properties(), h.Bookings.Today(), h.WindowDays))
}

// Availability answers whether a property is free for a stay.
func (h *CalendarHandler) Availability(c echo.Context) error {
	loc := h.Bookings.Location()
	prop, err := queryInt(c, "property", 0)
	if err != nil {
		return respondError(c, err)
	}
	if prop < 1 {
		return respondError(c, apperror.Validation("property is required"))
	}
	in, err := queryDay(c, "check_in", loc)
	if err != nil {
		return respondError(c, err)
	}
	out, err := queryDay(c, "check_out", loc)
	if err != nil {
		return respondError(c, err)
	}
	exclude, err := queryInt(c, "exclude", 0)
	if err != nil {
		return respondError(c, err)
	}
	conflict, err := h.Bookings.CheckAvailability(prop, in, out, int64(exclude))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"available": conflict == nil, "conflict": conflict})
}

// Search ranks every property over a window and suggests nearby windows
// with at least one fully free property.
func (h *CalendarHandler) Search(c echo.Context) error {
	loc := h.Bookings.Location()
	from, err := queryDay(c, "from", loc)
	if err != nil {
		return respondError(c, err)
	}
	to, err := queryDay(c, "to", loc)
	if err != nil {
		return respondError(c, err)
	}
	rs, props := h.Bookings.Snapshot(), h.Bookings.Properties()
	res, err := availability.Search(rs, props, from, to)
	if err != nil {
		return respondError(c, err)
	}
	suggestions, err := availability.Suggest(rs, props, from, to)
	if err != nil {
		return respondError(c, err)
	}
	if suggestions == nil {
		suggestions = []availability.Suggestion{}
	}
	return c.JSON(http.StatusOK, echo.Map{"result": res, "suggestions": suggestions})
}

// Month returns the calendar cells of a month.
func (h *CalendarHandler) Month(c echo.Context) error {
	today := h.Bookings.Today()
	year, err := queryInt(c, "year", today.Year)
	if err != nil {
		return respondError(c, err)
	}
	month, err := queryInt(c, "month", int(today.Month))
	if err != nil {
		return respondError(c, err)
	}
	if month < 1 || month > 12 {
		return respondError(c, apperror.Validation("month must be between 1 and 12"))
	}
	prop, err := queryInt(c, "property", 0)
	if err != nil {
		return respondError(c, err)
	}
	cells := occupancy.Month(h.Bookings.Snapshot(), year, time.Month(month), prop, today, h.Holidays)
	return c.JSON(http.StatusOK, echo.Map{"year": year, "month": month, "days": cells})
}

// Day returns a single calendar cell with its occupancies.
func (h *CalendarHandler) Day(c echo.Context) error {
	day, err := queryDay(c, "date", h.Bookings.Location())
	if err != nil {
		return respondError(c, err)
	}
	prop, err := queryInt(c, "property", 0)
	if err != nil {
		return respondError(c, err)
	}
	rs := h.Bookings.Snapshot()
	return c.JSON(http.StatusOK, echo.Map{
		"cell":         occupancy.Day(rs, day, prop, h.Bookings.Today(), h.Holidays),
		"reservations": nonNil(occupancy.ForDay(rs, day, prop)),
	})
}

// Stats returns the dashboard counters.
func (h *CalendarHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, occupancy.Dashboard(h.Bookings.Snapshot(), h.Bookings.Properties(), h.Bookings.Today()))
}

func nonNil(rs []model.Reservation) []model.Reservation {
	if rs == nil {
		return []model.Reservation{}
	}
	return rs
}
