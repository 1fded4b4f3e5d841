package appointment_test

import (
	"appointment-service/appointment"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2024-01-01T10:00:00", want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2024-01-01T10:00:00.25", want: time.Date(2024, 1, 1, 10, 0, 0, 250_000_000, time.UTC)},
		{in: "2024-01-01T10:00", want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2024-01-01", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2024-01-01T12:00:00+02:00", want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := appointment.ParseDateTime(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %s", got.Time)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := appointment.ParseDateTime("tomorrow")
		require.Error(t, err)
	})
}

func TestAppointmentJSON(t *testing.T) {
	t.Parallel()

	var a appointment.Appointment
	body := `{"id":3,"dateTime":"2024-01-02T10:00:00","cat":"Tom","catOwner":"Alice"}`
	require.NoError(t, json.Unmarshal([]byte(body), &a))
	assert.Equal(t, int64(3), a.ID)
	assert.Equal(t, "Tom", a.Cat)
	assert.Equal(t, "Alice", a.CatOwner)

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(out))

	t.Run("offset is normalized to utc", func(t *testing.T) {
		var b appointment.Appointment
		require.NoError(t, json.Unmarshal([]byte(`{"dateTime":"2024-01-02T12:00:00.5+02:00"}`), &b))
		assert.Equal(t, "2024-01-02T10:00:00.5", b.DateTime.String())
	})

	t.Run("nanoseconds are truncated to microseconds", func(t *testing.T) {
		var b appointment.Appointment
		require.NoError(t, json.Unmarshal([]byte(`{"dateTime":"2024-01-01T10:00:00.123456789"}`), &b))
		assert.Equal(t, "2024-01-01T10:00:00.123456", b.DateTime.String())

		reparsed, err := appointment.ParseDateTime(b.DateTime.String())
		require.NoError(t, err)
		assert.True(t, reparsed.Equal(b.DateTime))
		assert.Equal(t, b.DateTime, reparsed)
	})

	t.Run("bad date time", func(t *testing.T) {
		var b appointment.Appointment
		require.Error(t, json.Unmarshal([]byte(`{"dateTime":"soon"}`), &b))
		require.Error(t, json.Unmarshal([]byte(`{"dateTime":12}`), &b))
	})
}

func TestAppointmentValidate(t *testing.T) {
	t.Parallel()

	a := appointment.Appointment{Cat: "Tom"}
	require.Error(t, a.Validate())

	a.DateTime = appointment.NewDateTime(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, a.Validate())
}

func TestAvailabilityString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Date Available", appointment.Available.String())
	assert.Equal(t, "Date Not Available", appointment.NotAvailable.String())
}
