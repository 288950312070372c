package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/rental-booking/internal/model"
)

// schema is applied by EnsureSchema. The position column keeps the list in
// insertion order across saves.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS reservations (
		id                 BIGINT       NOT NULL PRIMARY KEY,
		position           INT          NOT NULL,
		property_id        INT          NOT NULL,
		check_in           DATE         NOT NULL,
		check_out          DATE         NOT NULL,
		check_in_time      VARCHAR(5)   NOT NULL,
		check_out_time     VARCHAR(5)   NOT NULL,
		guest_name         VARCHAR(255) NOT NULL,
		guest_national_id  VARCHAR(64)  NOT NULL,
		guest_phone        VARCHAR(64)  NOT NULL,
		guest_email        VARCHAR(255) NOT NULL DEFAULT '',
		occupant_count     INT          NOT NULL,
		notes              TEXT,
		status             VARCHAR(16)  NOT NULL,
		created_at         DATETIME(3)  NOT NULL,
		cancelled_at       DATETIME(3)  NULL,
		cleaning_done      BOOLEAN      NOT NULL DEFAULT FALSE,
		cleaning_scheduled BOOLEAN      NOT NULL DEFAULT FALSE,
		cleaning_done_at   DATETIME(3)  NULL,
		cleaning_state     VARCHAR(16)  NOT NULL DEFAULT '',
		price              DECIMAL(12,2) NULL,
		KEY idx_reservations_property (property_id, check_in)
	)`,
	`CREATE TABLE IF NOT EXISTS completed_reminders (
		id           VARCHAR(128) NOT NULL,
		day          DATE         NOT NULL,
		kind         VARCHAR(32)  NOT NULL,
		completed_at DATETIME(3)  NOT NULL,
		PRIMARY KEY (id, day)
	)`,
	`CREATE TABLE IF NOT EXISTS checklist_items (
		reminder_id VARCHAR(128) NOT NULL,
		item_index  INT          NOT NULL,
		done        BOOLEAN      NOT NULL,
		PRIMARY KEY (reminder_id, item_index)
	)`,
}

const reservationColumns = `id, position, property_id, check_in, check_out, check_in_time, check_out_time,
	guest_name, guest_national_id, guest_phone, guest_email, occupant_count, notes, status,
	created_at, cancelled_at, cleaning_done, cleaning_scheduled, cleaning_done_at, cleaning_state, price`

// MySQLBackend persists the store in three tables. Saves replace the whole
// table inside one transaction.
type MySQLBackend struct {
	db *sql.DB
}

// NewMySQLBackend returns a backend bound to db.
func NewMySQLBackend(db *sql.DB) *MySQLBackend { return &MySQLBackend{db: db} }

// EnsureSchema creates the tables when they do not exist.
func (b *MySQLBackend) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (b *MySQLBackend) LoadReservations(ctx context.Context) ([]model.Reservation, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Reservation
	for rows.Next() {
		var (
			r             model.Reservation
			position      int
			checkIn       time.Time
			checkOut      time.Time
			notes         sql.NullString
			cancelledAt   sql.NullTime
			cleaningAt    sql.NullTime
			cleaningState string
			price         sql.NullFloat64
		)
		if err := rows.Scan(
			&r.ID, &position, &r.PropertyID, &checkIn, &checkOut, &r.CheckInTime, &r.CheckOutTime,
			&r.Guest.Name, &r.Guest.NationalID, &r.Guest.Phone, &r.Guest.Email, &r.OccupantCount,
			&notes, &r.Status, &r.CreatedAt, &cancelledAt, &r.CleaningDone, &r.CleaningScheduled,
			&cleaningAt, &cleaningState, &price,
		); err != nil {
			return nil, err
		}
		r.CheckIn = civil.DateOf(checkIn)
		r.CheckOut = civil.DateOf(checkOut)
		r.Notes = notes.String
		r.CleaningState = model.CleaningState(cleaningState)
		if cancelledAt.Valid {
			t := cancelledAt.Time
			r.CancelledAt = &t
		}
		if cleaningAt.Valid {
			t := cleaningAt.Time
			r.CleaningDoneAt = &t
		}
		if price.Valid {
			p := price.Float64
			r.Price = &p
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (b *MySQLBackend) SaveReservations(ctx context.Context, rs []model.Reservation) error {
	return b.replace(ctx, "reservations", func(tx *sql.Tx) error {
		if len(rs) == 0 {
			return nil
		}
		var sb strings.Builder
		sb.WriteString(`INSERT INTO reservations (` + reservationColumns + `) VALUES `)
		args := make([]interface{}, 0, len(rs)*21)
		for i, r := range rs {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				r.ID, i, r.PropertyID, r.CheckIn.String(), r.CheckOut.String(), r.CheckInTime, r.CheckOutTime,
				r.Guest.Name, r.Guest.NationalID, r.Guest.Phone, r.Guest.Email, r.OccupantCount,
				r.Notes, string(r.Status), r.CreatedAt.UTC(), nullTime(r.CancelledAt),
				r.CleaningDone, r.CleaningScheduled, nullTime(r.CleaningDoneAt), string(r.CleaningState),
				nullFloat(r.Price),
			)
		}
		_, err := tx.ExecContext(ctx, sb.String(), args...)
		return err
	})
}

func (b *MySQLBackend) LoadCompletions(ctx context.Context) ([]model.CompletedReminder, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT id, day, kind, completed_at FROM completed_reminders ORDER BY completed_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CompletedReminder
	for rows.Next() {
		var (
			e   model.CompletedReminder
			day time.Time
		)
		if err := rows.Scan(&e.ID, &day, &e.Kind, &e.CompletedAt); err != nil {
			return nil, err
		}
		e.Day = civil.DateOf(day)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (b *MySQLBackend) SaveCompletions(ctx context.Context, entries []model.CompletedReminder) error {
	return b.replace(ctx, "completed_reminders", func(tx *sql.Tx) error {
		if len(entries) == 0 {
			return nil
		}
		query := `INSERT INTO completed_reminders (id, day, kind, completed_at) VALUES `
		args := make([]interface{}, 0, len(entries)*4)
		for i, e := range entries {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			args = append(args, e.ID, e.Day.String(), string(e.Kind), e.CompletedAt.UTC())
		}
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
}

func (b *MySQLBackend) LoadChecklists(ctx context.Context) (map[string][]bool, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT reminder_id, item_index, done FROM checklist_items ORDER BY reminder_id, item_index`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	state := map[string][]bool{}
	for rows.Next() {
		var (
			id   string
			idx  int
			done bool
		)
		if err := rows.Scan(&id, &idx, &done); err != nil {
			return nil, err
		}
		if idx < 0 {
			continue
		}
		items := state[id]
		for len(items) <= idx {
			items = append(items, false)
		}
		items[idx] = done
		state[id] = items
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return state, nil
}

func (b *MySQLBackend) SaveChecklists(ctx context.Context, state map[string][]bool) error {
	return b.replace(ctx, "checklist_items", func(tx *sql.Tx) error {
		query := `INSERT INTO checklist_items (reminder_id, item_index, done) VALUES `
		var args []interface{}
		n := 0
		for id, items := range state {
			for idx, done := range items {
				if n > 0 {
					query += ","
				}
				query += "(?, ?, ?)"
				args = append(args, id, idx, done)
				n++
			}
		}
		if n == 0 {
			return nil
		}
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
}

// replace empties table and calls fill inside a single transaction.
func (b *MySQLBackend) replace(ctx context.Context, table string, fill func(tx *sql.Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err = fill(tx); err != nil {
		return fmt.Errorf("fill %s: %w", table, err)
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
