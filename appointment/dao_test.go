package appointment_test

import (
	"appointment-service/appointment"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessor(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := appointment.NewAccessor(db)

	slot := mustDate(t, "2024-01-01T10:00:00")
	columns := []string{"id", "date_time", "cat", "cat_owner"}

	t.Run("migrate", func(t *testing.T) {
		dbMock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS appointments`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, a.Migrate(t.Context()))
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("create appointment", func(t *testing.T) {
		insertQuery := `INSERT INTO appointments (date_time, cat, cat_owner) VALUES ($1, $2, $3) RETURNING id`
		dbMock.ExpectQuery(regexp.QuoteMeta(insertQuery)).
			WithArgs(slot, "Tom", "Alice").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

		created, err := a.Create(t.Context(), appointment.Appointment{ID: 9, DateTime: slot, Cat: "Tom", CatOwner: "Alice"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "Tom", created.Cat)
		assert.Equal(t, "Alice", created.CatOwner)
		assert.True(t, slot.Equal(created.DateTime))

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("get appointment", func(t *testing.T) {
		selectQuery := `SELECT id, date_time, cat, cat_owner FROM appointments WHERE id = $1`
		dbMock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), slot.Time, "Tom", "Alice"))

		got, err := a.Get(t.Context(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, "2024-01-01T10:00:00", got.DateTime.String())
		assert.Equal(t, "Tom", got.Cat)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("get appointment - no rows", func(t *testing.T) {
		selectQuery := `SELECT id, date_time, cat, cat_owner FROM appointments WHERE id = $1`
		dbMock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs(int64(2)).
			WillReturnError(sql.ErrNoRows)

		_, err := a.Get(t.Context(), 2)
		require.ErrorIs(t, err, appointment.ErrNotFound)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("list appointments", func(t *testing.T) {
		selectQuery := `SELECT id, date_time, cat, cat_owner FROM appointments ORDER BY id`
		dbMock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(1), slot.Time, "Tom", "Alice").
				AddRow(int64(3), slot.Time, "Felix", "Bob"))

		all, err := a.List(t.Context())
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, int64(1), all[0].ID)
		assert.Equal(t, int64(3), all[1].ID)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("list appointments - empty", func(t *testing.T) {
		selectQuery := `SELECT id, date_time, cat, cat_owner FROM appointments ORDER BY id`
		dbMock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WillReturnRows(sqlmock.NewRows(columns))

		all, err := a.List(t.Context())
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	updateQuery := `UPDATE appointments SET date_time = $1, cat = $2, cat_owner = $3 WHERE id = $4`

	t.Run("update appointment", func(t *testing.T) {
		next := mustDate(t, "2024-01-02T10:00:00")
		dbMock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs(next, "Tom", "Alice", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := a.Update(t.Context(), 1, appointment.Appointment{DateTime: next, Cat: "Tom", CatOwner: "Alice"})
		require.NoError(t, err)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("update appointment - missing", func(t *testing.T) {
		dbMock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs(slot, "Tom", "Alice", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := a.Update(t.Context(), 5, appointment.Appointment{DateTime: slot, Cat: "Tom", CatOwner: "Alice"})
		require.ErrorIs(t, err, appointment.ErrNotFound)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	deleteQuery := `DELETE FROM appointments WHERE id = $1`

	t.Run("delete appointment", func(t *testing.T) {
		dbMock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, a.Delete(t.Context(), 1))
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("delete appointment - missing", func(t *testing.T) {
		dbMock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.ErrorIs(t, a.Delete(t.Context(), 1), appointment.ErrNotFound)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("delete appointment - db error", func(t *testing.T) {
		dbMock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
			WithArgs(int64(1)).
			WillReturnError(errors.New("connection reset"))

		err := a.Delete(t.Context(), 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, appointment.ErrNotFound)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("is booked", func(t *testing.T) {
		existsQuery := `SELECT EXISTS(SELECT 1 FROM appointments WHERE date_time = $1)`
		dbMock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
			WithArgs(slot).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		availability, err := appointment.CheckAvailability(t.Context(), a, slot)
		require.NoError(t, err)
		assert.Equal(t, appointment.NotAvailable, availability)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})
}
