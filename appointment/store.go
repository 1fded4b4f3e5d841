package appointment

import (
	"context"
	"fmt"
)

// Store is the persistence boundary for appointments. Implementations must be
// safe for concurrent use and must never reuse an id once assigned.
type Store interface {
	List(ctx context.Context) ([]Appointment, error)
	Get(ctx context.Context, id int64) (Appointment, error)
	Create(ctx context.Context, a Appointment) (Appointment, error)
	Update(ctx context.Context, id int64, a Appointment) error
	Delete(ctx context.Context, id int64) error
	// IsBooked reports whether an appointment starts at exactly date.
	IsBooked(ctx context.Context, date DateTime) (bool, error)
}

// CheckAvailability compares timestamps by equality only; an appointment one
// second later does not make date unavailable.
func CheckAvailability(ctx context.Context, s Store, date DateTime) (Availability, error) {
	booked, err := s.IsBooked(ctx, date)
	if err != nil {
		return NotAvailable, fmt.Errorf("is booked: %w", err)
	}
	return Availability(!booked), nil
}
