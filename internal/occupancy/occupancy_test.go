package occupancy

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-booking/internal/model"
)

func day(m time.Month, d int) civil.Date { return civil.Date{Year: 2024, Month: m, Day: d} }

func stay(id int64, prop int, in, out civil.Date) model.Reservation {
	return model.Reservation{
		ID: id, PropertyID: prop, CheckIn: in, CheckOut: out,
		Status: model.StatusConfirmed,
		Guest:  model.Guest{Name: "Guest", NationalID: "ID" + string(rune('A'+id))},
	}
}

func TestForDayIsInclusiveAndSkipsCancelled(t *testing.T) {
	cancelled := stay(3, 1, day(1, 10), day(1, 12))
	cancelled.Status = model.StatusCancelled
	rs := []model.Reservation{
		stay(1, 1, day(1, 10), day(1, 15)),
		stay(2, 2, day(1, 15), day(1, 18)),
		cancelled,
	}

	assert.Len(t, ForDay(rs, day(1, 10), 0), 1)
	assert.Len(t, ForDay(rs, day(1, 15), 0), 2)
	assert.Len(t, ForDay(rs, day(1, 15), 2), 1)
	assert.Empty(t, ForDay(rs, day(1, 19), 0))
}

func TestClassifyRoles(t *testing.T) {
	today := day(1, 20)
	a := stay(1, 1, day(1, 10), day(1, 15))
	b := stay(2, 1, day(1, 15), day(1, 22))

	turnover := Classify(day(1, 15), []model.Reservation{a, b}, today)
	assert.True(t, turnover.CheckIn)
	assert.True(t, turnover.CheckOut)
	assert.True(t, turnover.Turnover)
	assert.False(t, turnover.Intermediate)
	assert.False(t, turnover.Completed)
	require.Len(t, turnover.Occupancies, 2)
	assert.Equal(t, RoleCheckOut, turnover.Occupancies[0].Role)
	assert.Equal(t, RoleCheckIn, turnover.Occupancies[1].Role)

	mid := Classify(day(1, 12), []model.Reservation{a}, today)
	assert.True(t, mid.Intermediate)
	assert.False(t, mid.CheckIn || mid.CheckOut)

	empty := Classify(day(1, 1), nil, today)
	assert.False(t, empty.Occupied)
}

func TestClassifyCompletedNeedsEveryCheckoutCleanedAndPast(t *testing.T) {
	a := stay(1, 1, day(1, 10), day(1, 15))
	b := stay(2, 2, day(1, 12), day(1, 15))
	a.CleaningDone = true

	assert.False(t, Classify(day(1, 15), []model.Reservation{a, b}, day(1, 20)).Completed)

	b.CleaningDone = true
	assert.True(t, Classify(day(1, 15), []model.Reservation{a, b}, day(1, 20)).Completed)
	// Checkout today is not in the past yet.
	assert.False(t, Classify(day(1, 15), []model.Reservation{a, b}, day(1, 15)).Completed)
}

func TestMonthProjectsEveryDay(t *testing.T) {
	rs := []model.Reservation{stay(1, 1, day(2, 27), day(3, 2))}
	cells := Month(rs, 2024, time.February, 0, day(2, 28), nil)

	require.Len(t, cells, 29)
	assert.True(t, cells[26].CheckIn)
	assert.True(t, cells[27].Today)
	assert.True(t, cells[28].Intermediate)
	assert.False(t, cells[0].Occupied)
}

func TestMonthFlagsHolidays(t *testing.T) {
	cells := Month(nil, 2024, time.July, 0, day(7, 1), NewUSCalendar())
	assert.NotEmpty(t, cells[3].Holiday)
	assert.Empty(t, cells[4].Holiday)
	assert.Nil(t, HolidayCalendar("none"))
}

func TestArgentineCalendar(t *testing.T) {
	cells := Month(nil, 2024, time.July, 0, day(7, 1), HolidayCalendar("ar"))
	assert.Equal(t, "Día de la independencia", cells[8].Holiday)
	assert.Empty(t, cells[10].Holiday)

	name, ok := NewARCalendar().Holiday(civil.Date{Year: 2024, Month: time.May, Day: 25})
	assert.True(t, ok)
	assert.Equal(t, "Revolución de Mayo", name)
}

func TestRateSumsFullStaysAndCaps(t *testing.T) {
	today := day(3, 31)
	rs := []model.Reservation{
		stay(1, 1, day(3, 5), day(3, 11)),  // 6 nights
		stay(2, 1, day(3, 20), day(3, 29)), // 9 nights
		stay(3, 1, day(2, 1), day(3, 20)),  // starts before the window: ignored
		stay(4, 2, day(3, 5), day(3, 30)),
	}
	assert.Equal(t, 50, Rate(rs, 1, today, 30))

	// Not clipped: a long stay starting inside the window saturates.
	long := append(rs, stay(5, 1, day(3, 25), day(5, 10)))
	assert.Equal(t, 100, Rate(long, 1, today, 30))
	assert.Equal(t, 0, Rate(rs, 3, today, 30))
}

func TestStateOf(t *testing.T) {
	r := stay(1, 1, day(1, 10), day(1, 15))
	assert.Equal(t, StateUpcoming, StateOf(r, day(1, 9)))
	assert.Equal(t, StateInProgress, StateOf(r, day(1, 10)))
	assert.Equal(t, StateInProgress, StateOf(r, day(1, 15)))
	assert.Equal(t, StateCompleted, StateOf(r, day(1, 16)))

	r.Status = model.StatusCancelled
	assert.Equal(t, StateCancelled, StateOf(r, day(1, 9)))
	assert.False(t, StateCancelled.Active())
}

func TestDashboardAndSummaries(t *testing.T) {
	props := []model.Property{{ID: 1}, {ID: 2}, {ID: 3}}
	today := day(4, 10)
	rs := []model.Reservation{
		stay(1, 1, day(4, 10), day(4, 12)),
		stay(2, 2, day(4, 5), day(4, 10)),
		stay(3, 3, day(4, 15), day(4, 20)),
		stay(4, 3, day(4, 25), day(4, 28)),
	}

	st := Dashboard(rs, props, today)
	assert.Equal(t, 1, st.ArrivalsToday)
	assert.Equal(t, 2, st.OccupiedToday)
	assert.Equal(t, 4, st.GuestsThisMonth)
	assert.Equal(t, 2, st.UpcomingArrivals)

	sums := PropertySummaries(rs, props, today, 30)
	require.Len(t, sums, 3)
	assert.Equal(t, 2, sums[2].Total)
	assert.Equal(t, 2, sums[2].Future)
	require.NotNil(t, sums[2].Next)
	assert.EqualValues(t, 3, sums[2].Next.ID)
	assert.Nil(t, sums[1].Next)
}
