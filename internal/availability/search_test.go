package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-booking/internal/model"
)

var props = []model.Property{{ID: 1, Name: "Casa Isidro"}, {ID: 2, Name: "Depto Isidro"}, {ID: 3, Name: "Casa Alsina"}}

func TestSearchRanksFullThenPartial(t *testing.T) {
	rs := []model.Reservation{
		stay(1, 1, day(5, 1), day(5, 10)), // fully taken
		stay(2, 2, day(5, 6), day(5, 8)),  // partially taken
	}
	res, err := Search(rs, props, day(5, 4), day(5, 7))
	require.NoError(t, err)

	require.Len(t, res.Ranked, 3)
	assert.Equal(t, 3, res.Ranked[0].Property.ID)
	assert.Equal(t, 2, res.Ranked[1].Property.ID)
	assert.Equal(t, 1, res.Ranked[2].Property.ID)
	assert.Len(t, res.Full, 1)
	assert.Len(t, res.Partial, 1)
	assert.Len(t, res.Unavailable, 1)
	assert.Equal(t, SummarySomeFull, res.Summary)
	assert.Equal(t, 4, res.Days)
}

func TestSearchSummaries(t *testing.T) {
	res, err := Search(nil, props, day(5, 4), day(5, 7))
	require.NoError(t, err)
	assert.Equal(t, SummaryAll, res.Summary)

	var rs []model.Reservation
	for i, p := range props {
		rs = append(rs, stay(int64(i+1), p.ID, day(5, 1), day(5, 20)))
	}
	res, err = Search(rs, props, day(5, 4), day(5, 7))
	require.NoError(t, err)
	assert.Equal(t, SummaryNone, res.Summary)
}

func TestSuggestRanksNearbyWindows(t *testing.T) {
	rs := []model.Reservation{
		stay(1, 1, day(6, 1), day(6, 20)),
		stay(2, 2, day(6, 1), day(6, 14)),
		stay(3, 3, day(6, 1), day(6, 9)),
	}
	got, err := Suggest(rs, props, day(6, 8), day(6, 12))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, SuggestNextWeek, got[0].Kind)
	assert.Equal(t, 2, got[0].AvailableProperties)
	assert.Equal(t, time.June, got[0].Start.Month)
	assert.Equal(t, 15, got[0].Start.Day)
	assert.Equal(t, SuggestLater, got[1].Kind)
	assert.Equal(t, 1, got[1].AvailableProperties)
}
