package availability

import (
	"sort"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/rental-booking/internal/dates"
	"github.com/iliyamo/rental-booking/internal/model"
)

// Summary classifies a search outcome for the presentation layer.
type Summary string

const (
	SummaryAll         Summary = "all"          // every property fully free
	SummarySomeFull    Summary = "some_full"    // at least one fully free
	SummaryPartialOnly Summary = "partial_only" // none fully free, some partially
	SummaryNone        Summary = "none"
)

// PropertyAvailability pairs a property with its range result.
type PropertyAvailability struct {
	Property model.Property `json:"property"`
	RangeResult
}

// SearchResult is the availability of every property over one window.
type SearchResult struct {
	Start       civil.Date             `json:"start"`
	End         civil.Date             `json:"end"`
	Days        int                    `json:"days"`
	Ranked      []PropertyAvailability `json:"ranked"`
	Full        []PropertyAvailability `json:"full"`
	Partial     []PropertyAvailability `json:"partial"`
	Unavailable []PropertyAvailability `json:"unavailable"`
	Summary     Summary                `json:"summary"`
}

// Search checks every property over [start, end] and ranks them: fully
// available first, then by available percentage descending.
func Search(rs []model.Reservation, props []model.Property, start, end civil.Date) (SearchResult, error) {
	if err := ValidateRange(start, end); err != nil {
		return SearchResult{}, err
	}
	out := SearchResult{Start: start, End: end, Days: len(dates.Span(start, end))}
	for _, p := range props {
		rr, err := CheckRange(rs, p.ID, start, end)
		if err != nil {
			return SearchResult{}, err
		}
		out.Ranked = append(out.Ranked, PropertyAvailability{Property: p, RangeResult: rr})
	}
	sort.SliceStable(out.Ranked, func(i, j int) bool {
		a, b := out.Ranked[i], out.Ranked[j]
		if a.FullyAvailable != b.FullyAvailable {
			return a.FullyAvailable
		}
		return a.AvailablePercent > b.AvailablePercent
	})
	for _, pa := range out.Ranked {
		switch {
		case pa.FullyAvailable:
			out.Full = append(out.Full, pa)
		case pa.Available:
			out.Partial = append(out.Partial, pa)
		default:
			out.Unavailable = append(out.Unavailable, pa)
		}
	}
	switch {
	case len(out.Full) == len(out.Ranked):
		out.Summary = SummaryAll
	case len(out.Full) > 0:
		out.Summary = SummarySomeFull
	case len(out.Partial) > 0:
		out.Summary = SummaryPartialOnly
	default:
		out.Summary = SummaryNone
	}
	return out, nil
}

// SuggestionKind names the shift applied to the requested window.
type SuggestionKind string

const (
	SuggestEarlier  SuggestionKind = "two_days_earlier"
	SuggestLater    SuggestionKind = "two_days_later"
	SuggestNextWeek SuggestionKind = "next_week"
)

// Suggestion is an alternative window and how many properties are fully
// free in it.
type Suggestion struct {
	Kind                SuggestionKind `json:"kind"`
	Start               civil.Date     `json:"start"`
	End                 civil.Date     `json:"end"`
	AvailableProperties int            `json:"available_properties"`
}

var shifts = []struct {
	kind SuggestionKind
	days int
}{
	{SuggestEarlier, -2},
	{SuggestLater, 2},
	{SuggestNextWeek, 7},
}

// Suggest evaluates nearby windows (two days earlier, two days later, one
// week later) independently and returns those with at least one fully
// available property, most available first.
func Suggest(rs []model.Reservation, props []model.Property, start, end civil.Date) ([]Suggestion, error) {
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}
	var out []Suggestion
	for _, s := range shifts {
		from, to := dates.Shift(start, end, s.days)
		n, err := CountFullyAvailable(rs, props, from, to)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out = append(out, Suggestion{Kind: s.kind, Start: from, End: to, AvailableProperties: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvailableProperties > out[j].AvailableProperties
	})
	return out, nil
}

// CountFullyAvailable counts properties with no covered day in the window.
func CountFullyAvailable(rs []model.Reservation, props []model.Property, start, end civil.Date) (int, error) {
	n := 0
	for _, p := range props {
		rr, err := CheckRange(rs, p.ID, start, end)
		if err != nil {
			return 0, err
		}
		if rr.FullyAvailable {
			n++
		}
	}
	return n, nil
}
