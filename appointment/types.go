package appointment

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no appointment exists for the requested id.
var ErrNotFound = errors.New("appointment not found")

// outputLayout is the zone-less wire format. All values are kept in UTC at
// microsecond precision, the finest a TIMESTAMPTZ column stores.
const outputLayout = "2006-01-02T15:04:05.999999"

var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DateTime is an appointment timestamp. Inputs without a zone are read as UTC.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.UTC().Truncate(time.Microsecond)}
}

func ParseDateTime(s string) (DateTime, error) {
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDateTime(t), nil
		}
	}
	return DateTime{}, fmt.Errorf("invalid date time %q", s)
}

func (d DateTime) String() string {
	return d.Time.UTC().Format(outputLayout)
}

// Equal reports whether both values name the same instant.
func (d DateTime) Equal(other DateTime) bool {
	return d.Time.Equal(other.Time)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date time must be a string: %w", err)
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for INSERT/UPDATE.
func (d DateTime) Value() (driver.Value, error) {
	return d.Time.UTC(), nil
}

// Scan implements sql.Scanner for SELECT.
func (d *DateTime) Scan(value any) error {
	t, ok := value.(time.Time)
	if !ok {
		return fmt.Errorf("not a time.Time: %T", value)
	}
	*d = NewDateTime(t)
	return nil
}

type Appointment struct {
	ID       int64    `json:"id"`
	DateTime DateTime `json:"dateTime"`
	Cat      string   `json:"cat"`
	CatOwner string   `json:"catOwner"`
}

func (a *Appointment) Validate() error {
	if a.DateTime.IsZero() {
		return errors.New("date time is required")
	}
	return nil
}

// Availability is the answer to an exact-timestamp availability query.
type Availability bool

const (
	Available    Availability = true
	NotAvailable Availability = false
)

func (a Availability) String() string {
	if a {
		return "Date Available"
	}
	return "Date Not Available"
}
