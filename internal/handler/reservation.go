package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/export"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/service"
)

// ReservationHandler exposes the reservation lifecycle.
type ReservationHandler struct {
	Bookings *service.BookingService
}

// NewReservationHandler panics if svc is nil.
func NewReservationHandler(svc *service.BookingService) *ReservationHandler {
	if svc == nil {
		panic("handler.NewReservationHandler: nil service")
	}
	return &ReservationHandler{Bookings: svc}
}

func (h *ReservationHandler) historyFilter(c echo.Context) (service.HistoryFilter, error) {
	var f service.HistoryFilter
	var err error
	if f.PropertyID, err = queryInt(c, "property", 0); err != nil {
		return f, err
	}
	if f.Month, err = queryInt(c, "month", 0); err != nil {
		return f, err
	}
	if f.Year, err = queryInt(c, "year", 0); err != nil {
		return f, err
	}
	if f.Status, err = service.ParseHistoryStatus(c.QueryParam("status")); err != nil {
		return f, err
	}
	f.Query = c.QueryParam("q")
	return f, nil
}

// List returns the filtered reservation history.
func (h *ReservationHandler) List(c echo.Context) error {
	f, err := h.historyFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, h.Bookings.History(f))
}

// Get returns one reservation.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	r, err := h.Bookings.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Create books a new stay.
func (h *ReservationHandler) Create(c echo.Context) error {
	var in service.ReservationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	r, err := h.Bookings.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// Update edits an existing stay.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in service.ReservationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	r, err := h.Bookings.Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Cancel marks a stay cancelled.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	r, err := h.Bookings.Cancel(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Delete removes a stay permanently.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Bookings.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type cleaningReq struct {
	State model.CleaningState `json:"state"`
}

// MarkCleaning records the post-checkout cleaning of a stay.
func (h *ReservationHandler) MarkCleaning(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req cleaningReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	r, err := h.Bookings.MarkCleaningDone(c.Request().Context(), id, req.State)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Export streams the filtered history as CSV.
func (h *ReservationHandler) Export(c echo.Context) error {
	f, err := h.historyFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	today := h.Bookings.Today()
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, h.Bookings.History(f).Reservations, h.Bookings.Properties(), today, h.Bookings.Location()); err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.FileName(today)+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
