package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-booking/internal/model"
)

func newMySQLBackend(t *testing.T) (*MySQLBackend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMySQLBackend(db), mock
}

func TestMySQLEnsureSchema(t *testing.T) {
	b, mock := newMySQLBackend(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS reservations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS completed_reminders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS checklist_items").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, b.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLLoadReservations(t *testing.T) {
	b, mock := newMySQLBackend(t)
	created := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	cleaned := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "position", "property_id", "check_in", "check_out", "check_in_time", "check_out_time",
		"guest_name", "guest_national_id", "guest_phone", "guest_email", "occupant_count", "notes", "status",
		"created_at", "cancelled_at", "cleaning_done", "cleaning_scheduled", "cleaning_done_at", "cleaning_state", "price",
	}).
		AddRow(int64(7), int64(0), int64(2), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			"14:00", "10:00", "Ana", "30111222", "555", "", int64(2), nil, "confirmed",
			created, nil, true, false, cleaned, "fair", 99.5).
		AddRow(int64(8), int64(1), int64(1), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
			"14:00", "10:00", "Luis", "20999888", "777", "l@example.com", int64(1), "crib", "cancelled",
			created, created, false, false, nil, "", nil)
	mock.ExpectQuery("SELECT (.+) FROM reservations ORDER BY position").WillReturnRows(rows)

	got, err := b.LoadReservations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, day(3, 1), got[0].CheckIn)
	assert.Equal(t, day(3, 4), got[0].CheckOut)
	assert.Equal(t, model.CleaningFair, got[0].CleaningState)
	require.NotNil(t, got[0].CleaningDoneAt)
	require.NotNil(t, got[0].Price)
	assert.Equal(t, 99.5, *got[0].Price)
	assert.Nil(t, got[0].CancelledAt)

	assert.Equal(t, model.StatusCancelled, got[1].Status)
	assert.Equal(t, "crib", got[1].Notes)
	assert.NotNil(t, got[1].CancelledAt)
	assert.Nil(t, got[1].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSaveReservationsReplacesTable(t *testing.T) {
	b, mock := newMySQLBackend(t)
	rs := []model.Reservation{stay(1, day(3, 1), day(3, 4)), stay(2, day(3, 4), day(3, 6))}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reservations").WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("INSERT INTO reservations").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, b.SaveReservations(context.Background(), rs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSaveEmptyOnlyClears(t *testing.T) {
	b, mock := newMySQLBackend(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reservations").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, b.SaveReservations(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSaveRollsBackOnInsertError(t *testing.T) {
	b, mock := newMySQLBackend(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reservations").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO reservations").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := b.SaveReservations(context.Background(), []model.Reservation{stay(1, day(3, 1), day(3, 4))})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCompletionsAndChecklists(t *testing.T) {
	b, mock := newMySQLBackend(t)
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, day, kind, completed_at FROM completed_reminders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "day", "kind", "completed_at"}).
			AddRow("prep_1", time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), "prep", at))
	mock.ExpectQuery("SELECT reminder_id, item_index, done FROM checklist_items").
		WillReturnRows(sqlmock.NewRows([]string{"reminder_id", "item_index", "done"}).
			AddRow("prep_1", int64(0), true).
			AddRow("prep_1", int64(2), true))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM checklist_items").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO checklist_items").
		WithArgs("prep_1", 0, true, "prep_1", 1, false).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	ctx := context.Background()
	entries, err := b.LoadCompletions(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, day(3, 3), entries[0].Day)
	assert.Equal(t, model.KindPrep, entries[0].Kind)

	lists, err := b.LoadChecklists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, lists["prep_1"])

	require.NoError(t, b.SaveChecklists(ctx, map[string][]bool{"prep_1": {true, false}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
