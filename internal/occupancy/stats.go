package occupancy

import (
	"sort"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/rental-booking/internal/model"
)

// UpcomingDays is how far ahead Dashboard looks for arrivals.
const UpcomingDays = 7

// Stats is the dashboard summary for today.
type Stats struct {
	ArrivalsToday    int `json:"arrivals_today"`
	OccupiedToday    int `json:"occupied_today"`
	GuestsThisMonth  int `json:"guests_this_month"`
	UpcomingArrivals int `json:"upcoming_arrivals"`
}

// Dashboard counts, over confirmed reservations: check-ins today,
// properties occupied today, distinct guests (by national id) checking in
// this month, and check-ins within the next UpcomingDays days.
func Dashboard(rs []model.Reservation, props []model.Property, today civil.Date) Stats {
	var st Stats
	occupied := map[int]bool{}
	guests := map[string]bool{}
	horizon := today.AddDays(UpcomingDays)
	for _, r := range rs {
		if r.IsCancelled() {
			continue
		}
		if r.CheckIn == today {
			st.ArrivalsToday++
		}
		if r.Covers(today) {
			occupied[r.PropertyID] = true
		}
		if r.CheckIn.Year == today.Year && r.CheckIn.Month == today.Month {
			guests[r.Guest.NationalID] = true
		}
		if !r.CheckIn.Before(today) && !r.CheckIn.After(horizon) {
			st.UpcomingArrivals++
		}
	}
	for _, p := range props {
		if occupied[p.ID] {
			st.OccupiedToday++
		}
	}
	st.GuestsThisMonth = len(guests)
	return st
}

// PropertySummary is the per-property card data.
type PropertySummary struct {
	Property      model.Property     `json:"property"`
	Total         int                `json:"total"`
	Future        int                `json:"future"`
	OccupancyRate int                `json:"occupancy_rate"`
	Next          *model.Reservation `json:"next,omitempty"`
}

// PropertySummaries returns, per property, the count of confirmed
// reservations, how many start today or later, the occupancy rate and the
// next reservation to begin.
func PropertySummaries(rs []model.Reservation, props []model.Property, today civil.Date, windowDays int) []PropertySummary {
	out := make([]PropertySummary, 0, len(props))
	for _, p := range props {
		s := PropertySummary{Property: p, OccupancyRate: Rate(rs, p.ID, today, windowDays)}
		var future []model.Reservation
		for _, r := range rs {
			if r.PropertyID != p.ID || r.IsCancelled() {
				continue
			}
			s.Total++
			if !r.CheckIn.Before(today) {
				future = append(future, r)
			}
		}
		s.Future = len(future)
		if len(future) > 0 {
			sort.SliceStable(future, func(i, j int) bool { return future[i].CheckIn.Before(future[j].CheckIn) })
			next := future[0]
			s.Next = &next
		}
		out = append(out, s)
	}
	return out
}
