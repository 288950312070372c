// Package reminder derives cleaning, preparation and check-in reminders from
// the reservation list. Reminders are never stored; a side ledger records
// which ones the owner completed so they stop showing up.
package reminder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/rental-booking/internal/model"
)

// PrepDays is how far ahead of a check-in the preparation reminder appears.
const PrepDays = 3

// CleaningChecklist is attached to both cleaning reminders.
var CleaningChecklist = []string{
	"Change sheets and pillowcases",
	"Deep clean bathrooms",
	"Vacuum rugs and floors",
	"Clean kitchen and appliances",
	"Restock supplies (paper, soap, etc.)",
	"Empty and clean bins",
	"Check that all appliances work",
	"Leave keys in a safe place",
}

// PrepChecklist is attached to preparation reminders.
var PrepChecklist = []string{
	"Check overall cleanliness",
	"Make sure there are clean towels",
	"Check dishware inventory",
	"Test air conditioning/heating",
	"Check WiFi works",
	"Leave clear instructions",
	"Confirm check-in time",
	"Prepare keys/access cards",
}

// Completions answers whether a reminder was already completed for a day.
type Completions interface {
	IsCompleted(id string, day civil.Date) bool
}

// Generate returns the pending reminders for today, most urgent first.
// Reminders recorded in done for the same target day are left out; done may
// be nil.
func Generate(rs []model.Reservation, done Completions, today civil.Date) []model.Reminder {
	all := generateAll(rs, today)
	if done == nil {
		return all
	}
	out := all[:0]
	for _, r := range all {
		if !done.IsCompleted(r.ID, r.TargetDate) {
			out = append(out, r)
		}
	}
	return out
}

// generateAll builds every reminder for today ignoring the ledger.
func generateAll(rs []model.Reservation, today civil.Date) []model.Reminder {
	tomorrow := today.AddDays(1)
	var out []model.Reminder

	for _, r := range rs {
		if r.IsCancelled() {
			continue
		}
		if r.CheckOut == today && !r.CleaningDone {
			out = append(out, model.Reminder{
				ID:            cleaningID(r.ID, model.KindCleaningUrgent),
				Kind:          model.KindCleaningUrgent,
				Priority:      model.PriorityUrgent,
				TargetDate:    today,
				PropertyID:    r.PropertyID,
				ReservationID: r.ID,
				GuestName:     r.Guest.Name,
				Time:          orDefault(r.CheckOutTime, model.DefaultCheckOutTime),
				Checklist:     clone(CleaningChecklist),
			})
		}
	}

	for _, r := range rs {
		if r.IsCancelled() {
			continue
		}
		if r.CheckOut == tomorrow && !r.CleaningScheduled {
			out = append(out, model.Reminder{
				ID:            cleaningID(r.ID, model.KindCleaningScheduled),
				Kind:          model.KindCleaningScheduled,
				Priority:      model.PriorityTomorrow,
				TargetDate:    tomorrow,
				PropertyID:    r.PropertyID,
				ReservationID: r.ID,
				GuestName:     r.Guest.Name,
				Time:          orDefault(r.CheckOutTime, model.DefaultCheckOutTime),
				Checklist:     clone(CleaningChecklist),
			})
		}
	}

	for _, r := range rs {
		if r.IsCancelled() {
			continue
		}
		days := r.CheckIn.DaysSince(today)
		if days < 1 || days > PrepDays {
			continue
		}
		out = append(out, model.Reminder{
			ID:            fmt.Sprintf("prep_%d", r.ID),
			Kind:          model.KindPrep,
			Priority:      prepPriority(days),
			TargetDate:    r.CheckIn,
			PropertyID:    r.PropertyID,
			ReservationID: r.ID,
			GuestName:     r.Guest.Name,
			Time:          orDefault(r.CheckInTime, model.DefaultCheckInTime),
			Checklist:     clone(PrepChecklist),
		})
	}

	for _, r := range rs {
		if r.IsCancelled() {
			continue
		}
		if r.CheckIn == today {
			out = append(out, model.Reminder{
				ID:            fmt.Sprintf("checkin_%d_today", r.ID),
				Kind:          model.KindCheckIn,
				Priority:      model.PriorityUrgent,
				TargetDate:    today,
				PropertyID:    r.PropertyID,
				ReservationID: r.ID,
				GuestName:     r.Guest.Name,
				Time:          orDefault(r.CheckInTime, model.DefaultCheckInTime),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].TargetDate.Before(out[j].TargetDate)
	})
	return out
}

func prepPriority(days int) model.Priority {
	switch days {
	case 1:
		return model.PriorityUrgent
	case 2:
		return model.PriorityTomorrow
	}
	return model.PriorityNormal
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// CountUrgent returns how many reminders have urgent priority.
func CountUrgent(rs []model.Reminder) int {
	n := 0
	for _, r := range rs {
		if r.Priority == model.PriorityUrgent {
			n++
		}
	}
	return n
}

// cleaningID is cleaning_<reservation>_today for the urgent reminder and
// cleaning_<reservation>_tomorrow for the scheduled one.
func cleaningID(reservationID int64, kind model.ReminderKind) string {
	suffix := "today"
	if kind == model.KindCleaningScheduled {
		suffix = "tomorrow"
	}
	return "cleaning_" + strconv.FormatInt(reservationID, 10) + "_" + suffix
}

// parseCleaningID is the inverse of cleaningID.
func parseCleaningID(id string) (int64, model.ReminderKind, bool) {
	rest, ok := strings.CutPrefix(id, "cleaning_")
	if !ok {
		return 0, "", false
	}
	kind := model.KindCleaningUrgent
	raw, ok := strings.CutSuffix(rest, "_today")
	if !ok {
		if raw, ok = strings.CutSuffix(rest, "_tomorrow"); !ok {
			return 0, "", false
		}
		kind = model.KindCleaningScheduled
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return n, kind, true
}

func clone(items []string) []string { return append([]string(nil), items...) }
