package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// CancellationNotice is how far before check-in an owner may still
// cancel a confirmed booking.
const CancellationNotice = 48 * time.Hour

// Booking reserves a bookable resource for the half-open date range
// [CheckIn, CheckOut). SpecialRequests and PaymentMethod are ciphertext
// at rest; the booking repository en/decrypts them at its boundaries.
type Booking struct {
	Base
	Reference       string        `db:"reference"`
	UserID          uuid.UUID     `db:"user_id"`
	Bookable        BookableRef   `db:"bookable"`
	CheckIn         time.Time     `db:"check_in_date"`
	CheckOut        time.Time     `db:"check_out_date"`
	TotalPrice      float64       `db:"total_price"`
	Status          BookingStatus `db:"status"`
	GuestsCount     int           `db:"guests_count"`
	SpecialRequests *string       `db:"special_requests"`
	PaymentMethod   string        `db:"payment_method"`
	PaymentStatus   PaymentStatus `db:"payment_status"`
}

// Overlaps reports whether [in, out) shares at least one night with the
// booking's own interval. Checkout day equals next check-in day is not a
// conflict.
func (b *Booking) Overlaps(in, out time.Time) bool {
	return b.CheckIn.Before(out) && in.Before(b.CheckOut)
}

// Nights returns the booking length in whole days.
func (b *Booking) Nights() int {
	return Nights(b.CheckIn, b.CheckOut)
}

// Nights computes the whole-day length of [in, out).
func Nights(in, out time.Time) int {
	return int(out.Sub(in).Hours() / 24)
}

// Terminal reports whether the booking can no longer change state
// except through cancellation.
func (b *Booking) Terminal() bool {
	return b.Status == BookingStatusCancelled
}

// CanBeCancelledBy reports whether the owning user may cancel: only a
// confirmed booking whose check-in is more than two days away.
func (b *Booking) CanBeCancelledBy(now time.Time) bool {
	return b.Status == BookingStatusConfirmed && b.CheckIn.After(now.Add(CancellationNotice))
}
