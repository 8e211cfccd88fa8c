package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	booking := &Booking{
		CheckIn:  date(2026, 6, 10),
		CheckOut: date(2026, 6, 15),
	}

	tests := []struct {
		name string
		in   time.Time
		out  time.Time
		want bool
	}{
		{"identical interval", date(2026, 6, 10), date(2026, 6, 15), true},
		{"contained inside", date(2026, 6, 11), date(2026, 6, 13), true},
		{"straddles start", date(2026, 6, 8), date(2026, 6, 11), true},
		{"straddles end", date(2026, 6, 14), date(2026, 6, 18), true},
		{"covers whole interval", date(2026, 6, 8), date(2026, 6, 18), true},
		{"entirely before", date(2026, 6, 1), date(2026, 6, 5), false},
		{"entirely after", date(2026, 6, 20), date(2026, 6, 25), false},
		{"checkout day equals next checkin", date(2026, 6, 15), date(2026, 6, 20), false},
		{"checkin day equals prior checkout", date(2026, 6, 5), date(2026, 6, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(tt.in, tt.out))
		})
	}
}

func TestNights(t *testing.T) {
	assert.Equal(t, 5, Nights(date(2026, 6, 10), date(2026, 6, 15)))
	assert.Equal(t, 1, Nights(date(2026, 6, 10), date(2026, 6, 11)))
	assert.Equal(t, 0, Nights(date(2026, 6, 10), date(2026, 6, 10)))
}

func TestCanBeCancelledBy(t *testing.T) {
	now := time.Now()

	t.Run("confirmed with enough notice", func(t *testing.T) {
		b := &Booking{
			Status:   BookingStatusConfirmed,
			CheckIn:  now.Add(72 * time.Hour),
			CheckOut: now.Add(120 * time.Hour),
		}
		assert.True(t, b.CanBeCancelledBy(now))
	})

	t.Run("confirmed inside the notice window", func(t *testing.T) {
		b := &Booking{
			Status:   BookingStatusConfirmed,
			CheckIn:  now.Add(24 * time.Hour),
			CheckOut: now.Add(72 * time.Hour),
		}
		assert.False(t, b.CanBeCancelledBy(now))
	})

	t.Run("pending is not covered by the window rule", func(t *testing.T) {
		b := &Booking{
			Status:  BookingStatusPending,
			CheckIn: now.Add(240 * time.Hour),
		}
		assert.False(t, b.CanBeCancelledBy(now))
	})

	t.Run("cancelled never", func(t *testing.T) {
		b := &Booking{
			Status:  BookingStatusCancelled,
			CheckIn: now.Add(240 * time.Hour),
		}
		assert.False(t, b.CanBeCancelledBy(now))
	})
}

func TestTerminal(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingStatusCancelled}).Terminal())
	assert.False(t, (&Booking{Status: BookingStatusPending}).Terminal())
	assert.False(t, (&Booking{Status: BookingStatusConfirmed}).Terminal())
}

func TestParseBookableKind(t *testing.T) {
	kind, err := ParseBookableKind("hotel")
	assert.NoError(t, err)
	assert.Equal(t, BookableHotel, kind)

	kind, err = ParseBookableKind("yacht")
	assert.NoError(t, err)
	assert.Equal(t, BookableYacht, kind)

	_, err = ParseBookableKind("villa")
	assert.Error(t, err)
}
