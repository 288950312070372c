package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/apperror"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/reminder"
	"github.com/iliyamo/rental-booking/internal/scheduler"
)

// ReminderHandler exposes today's reminders and their checklists. Job is
// the periodic refresh; it may be nil.
type ReminderHandler struct {
	Reminders *reminder.Service
	Job       *scheduler.ReminderJob
}

// NewReminderHandler panics if svc is nil.
func NewReminderHandler(svc *reminder.Service, job *scheduler.ReminderJob) *ReminderHandler {
	if svc == nil {
		panic("handler.NewReminderHandler: nil service")
	}
	return &ReminderHandler{Reminders: svc, Job: job}
}

// Status reports the counts from the last scheduled refresh. Without a job,
// or before its first run, the reminders are generated on the spot.
func (h *ReminderHandler) Status(c echo.Context) error {
	var rs []model.Reminder
	var at time.Time
	if h.Job != nil {
		rs, at = h.Job.Latest()
	}
	if at.IsZero() {
		rs, at = h.Reminders.List(), time.Now()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"pending":      len(rs),
		"urgent":       reminder.CountUrgent(rs),
		"refreshed_at": at,
	})
}

// List returns the pending reminders, most urgent first.
func (h *ReminderHandler) List(c echo.Context) error {
	rs := h.Reminders.List()
	if rs == nil {
		rs = []model.Reminder{}
	}
	return c.JSON(http.StatusOK, echo.Map{"reminders": rs, "urgent": reminder.CountUrgent(rs)})
}

// Complete marks a reminder done.
func (h *ReminderHandler) Complete(c echo.Context) error {
	if err := h.Reminders.MarkComplete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Checklist returns a reminder's checklist state.
func (h *ReminderHandler) Checklist(c echo.Context) error {
	v, err := h.Reminders.Checklist(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

type checklistItemReq struct {
	Done bool `json:"done"`
}

// SetChecklistItem ticks or unticks one checklist item.
func (h *ReminderHandler) SetChecklistItem(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return respondError(c, apperror.Validation("invalid checklist index %q", c.Param("index")))
	}
	var req checklistItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	v, err := h.Reminders.SetChecklistItem(c.Request().Context(), c.Param("id"), index, req.Done)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// CompleteChecklist ticks every item and completes the reminder.
func (h *ReminderHandler) CompleteChecklist(c echo.Context) error {
	v, err := h.Reminders.CompleteChecklist(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}
