package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const schema = `CREATE TABLE IF NOT EXISTS appointments (
	id BIGSERIAL PRIMARY KEY,
	date_time TIMESTAMPTZ NOT NULL,
	cat TEXT NOT NULL DEFAULT '',
	cat_owner TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS appointments_date_time_idx ON appointments (date_time)`

// Migrate creates the appointments table if it does not exist yet.
func (a *Accessor) Migrate(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("exec context: %w", err)
	}
	return nil
}

func (a *Accessor) List(ctx context.Context) ([]Appointment, error) {
	appointments := []Appointment{}

	query := `SELECT id, date_time, cat, cat_owner FROM appointments ORDER BY id`
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var appt Appointment
		if err := rows.Scan(&appt.ID, &appt.DateTime, &appt.Cat, &appt.CatOwner); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		appointments = append(appointments, appt)
	}

	return appointments, rows.Err()
}

func (a *Accessor) Get(ctx context.Context, id int64) (Appointment, error) {
	var appt Appointment

	query := `SELECT id, date_time, cat, cat_owner FROM appointments WHERE id = $1`
	row := a.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&appt.ID, &appt.DateTime, &appt.Cat, &appt.CatOwner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, fmt.Errorf("scan: %w", err)
	}

	return appt, nil
}

func (a *Accessor) Create(ctx context.Context, appt Appointment) (Appointment, error) {
	query := `INSERT INTO appointments (date_time, cat, cat_owner) VALUES ($1, $2, $3) RETURNING id`
	row := a.db.QueryRowContext(ctx, query, appt.DateTime, appt.Cat, appt.CatOwner)
	if err := row.Scan(&appt.ID); err != nil {
		return Appointment{}, fmt.Errorf("scan: %w", err)
	}

	return appt, nil
}

// Update leaves id untouched; only the booking details are replaced.
func (a *Accessor) Update(ctx context.Context, id int64, appt Appointment) error {
	query := `UPDATE appointments SET date_time = $1, cat = $2, cat_owner = $3 WHERE id = $4`
	res, err := a.db.ExecContext(ctx, query, appt.DateTime, appt.Cat, appt.CatOwner, id)
	if err != nil {
		return fmt.Errorf("exec context: %w", err)
	}
	return requireAffected(res)
}

func (a *Accessor) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM appointments WHERE id = $1`
	res, err := a.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("exec context: %w", err)
	}
	return requireAffected(res)
}

func (a *Accessor) IsBooked(ctx context.Context, date DateTime) (bool, error) {
	var booked bool

	query := `SELECT EXISTS(SELECT 1 FROM appointments WHERE date_time = $1)`
	if err := a.db.QueryRowContext(ctx, query, date).Scan(&booked); err != nil {
		return false, fmt.Errorf("scan: %w", err)
	}

	return booked, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
