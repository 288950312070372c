package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-booking/internal/model"
)

func TestWriteCSV(t *testing.T) {
	today := civil.Date{Year: 2024, Month: 3, Day: 10}
	price := 180.5
	created := time.Date(2024, 2, 1, 15, 4, 5, 0, time.UTC)
	rs := []model.Reservation{
		{
			ID: 1, PropertyID: 1,
			CheckIn: civil.Date{Year: 2024, Month: 3, Day: 1}, CheckOut: civil.Date{Year: 2024, Month: 3, Day: 4},
			Guest:  model.Guest{Name: `Juan "Pepe" Pérez`, NationalID: "20111", Phone: "555"},
			Status: model.StatusConfirmed, CreatedAt: created, CleaningDone: true, Price: &price,
			Notes: "late, with dog",
		},
		{
			ID: 2, PropertyID: 3,
			CheckIn: civil.Date{Year: 2024, Month: 3, Day: 12}, CheckOut: civil.Date{Year: 2024, Month: 3, Day: 14},
			Guest:  model.Guest{Name: "Ana", NationalID: "30222", Phone: "777", Email: "ana@example.com"},
			Status: model.StatusCancelled, CreatedAt: created, OccupantCount: 3,
		},
	}
	props := []model.Property{{ID: 1, Name: "Casa Isidro N°1"}, {ID: 3, Name: "Casa Alsina"}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rs, props, today, time.UTC))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t,
		`1,"Casa Isidro N°1","2024-03-01","2024-03-04","14:00","10:00","Juan ""Pepe"" Pérez","20111","555","",1,"Completed",3,180.5,"late, with dog","2024-02-01T15:04:05Z",Yes`,
		lines[1])

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, `Juan "Pepe" Pérez`, records[1][6])
	assert.Equal(t, "Cancelled", records[2][11])
	assert.Equal(t, "3", records[2][10])
	assert.Equal(t, "0", records[2][13])
	assert.Equal(t, "No", records[2][16])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "reservations-2024-03-10.csv", FileName(civil.Date{Year: 2024, Month: 3, Day: 10}))
}
