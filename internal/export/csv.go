// Package export renders the reservation history as CSV.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/occupancy"
)

// Header is the first line of every export.
const Header = "ID,Property,Check-in,Check-out,Check-in time,Check-out time,Guest,National ID,Phone,Email,Occupants,Status,Nights,Price,Notes,Created at,Cleaning done"

// FileName returns the download name for an export made on day.
func FileName(day civil.Date) string {
	return fmt.Sprintf("reservations-%s.csv", day)
}

// WriteCSV writes rs to w. Text columns are always quoted, numeric columns
// never are. Status is derived relative to today; timestamps are rendered in
// loc.
func WriteCSV(w io.Writer, rs []model.Reservation, props []model.Property, today civil.Date, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return err
	}
	for _, r := range rs {
		name := ""
		if p, ok := model.FindProperty(props, r.PropertyID); ok {
			name = p.Name
		}
		occupants := r.OccupantCount
		if occupants == 0 {
			occupants = 1
		}
		price := "0"
		if r.Price != nil {
			price = strconv.FormatFloat(*r.Price, 'f', -1, 64)
		}
		cleaning := "No"
		if r.CleaningDone {
			cleaning = "Yes"
		}
		row := []string{
			strconv.FormatInt(r.ID, 10),
			quote(name),
			quote(r.CheckIn.String()),
			quote(r.CheckOut.String()),
			quote(orDefault(r.CheckInTime, model.DefaultCheckInTime)),
			quote(orDefault(r.CheckOutTime, model.DefaultCheckOutTime)),
			quote(r.Guest.Name),
			quote(r.Guest.NationalID),
			quote(r.Guest.Phone),
			quote(r.Guest.Email),
			strconv.Itoa(occupants),
			quote(statusLabel(occupancy.StateOf(r, today))),
			strconv.Itoa(r.Nights()),
			price,
			quote(r.Notes),
			quote(r.CreatedAt.In(loc).Format(time.RFC3339)),
			cleaning,
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func statusLabel(s occupancy.State) string {
	switch s {
	case occupancy.StateCancelled:
		return "Cancelled"
	case occupancy.StateCompleted:
		return "Completed"
	}
	return "Active"
}

// quote wraps s in double quotes, doubling any quote inside it.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
