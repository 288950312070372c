package service

import (
	"sort"
	"strings"

	"github.com/iliyamo/rental-booking/internal/apperror"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/occupancy"
)

// HistoryStatus selects reservations by lifecycle state.
type HistoryStatus string

const (
	HistoryAll       HistoryStatus = "all"
	HistoryActive    HistoryStatus = "active"
	HistoryCompleted HistoryStatus = "completed"
	HistoryCancelled HistoryStatus = "cancelled"
)

// ParseHistoryStatus accepts the known statuses; empty means all.
func ParseHistoryStatus(s string) (HistoryStatus, error) {
	switch st := HistoryStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return HistoryAll, nil
	case HistoryAll, HistoryActive, HistoryCompleted, HistoryCancelled:
		return st, nil
	}
	return "", apperror.Validation("unknown status %q", s)
}

// HistoryFilter narrows the reservation history. Zero values match
// everything. Month and Year apply to the check-in date.
type HistoryFilter struct {
	PropertyID int
	Month      int
	Year       int
	Status     HistoryStatus
	Query      string
}

// HistoryTotals counts the filtered reservations by state.
type HistoryTotals struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// History is the result of a history query.
type History struct {
	Reservations []model.Reservation `json:"reservations"`
	Totals       HistoryTotals       `json:"totals"`
}

// History returns the reservations matching f, latest check-out first.
// Cancelled reservations are included unless the status filter excludes
// them.
func (s *BookingService) History(f HistoryFilter) History {
	today := s.Today()
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := []model.Reservation{}
	for _, r := range s.store.Snapshot() {
		if f.PropertyID > 0 && r.PropertyID != f.PropertyID {
			continue
		}
		if f.Month > 0 && int(r.CheckIn.Month) != f.Month {
			continue
		}
		if f.Year > 0 && r.CheckIn.Year != f.Year {
			continue
		}
		state := occupancy.StateOf(r, today)
		switch f.Status {
		case HistoryActive:
			if !state.Active() {
				continue
			}
		case HistoryCompleted:
			if state != occupancy.StateCompleted {
				continue
			}
		case HistoryCancelled:
			if state != occupancy.StateCancelled {
				continue
			}
		}
		if query != "" && !matches(r.Guest, query) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CheckOut.After(out[j].CheckOut)
	})

	h := History{Reservations: out}
	for _, r := range out {
		h.Totals.Total++
		switch state := occupancy.StateOf(r, today); {
		case state == occupancy.StateCancelled:
			h.Totals.Cancelled++
		case state == occupancy.StateCompleted:
			h.Totals.Completed++
		default:
			h.Totals.Active++
		}
	}
	return h
}

func matches(g model.Guest, query string) bool {
	for _, field := range []string{g.Name, g.NationalID, g.Phone, g.Email} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
