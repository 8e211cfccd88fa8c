// Package notify publishes booking lifecycle events to RabbitMQ for
// downstream consumers (emails, analytics). Delivery is best effort: a
// failed publish is logged and never blocks or fails the booking flow.
package notify

import "time"

const (
	QueueBookingCreated   = "booking.created"
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingCancelled = "booking.cancelled"
)

// BookingEvent carries enough for a consumer to act without querying the
// primary database. Encrypted attributes never appear here.
type BookingEvent struct {
	BookingID    string    `json:"booking_id"`
	Reference    string    `json:"reference"`
	UserID       string    `json:"user_id"`
	BookableType string    `json:"bookable_type"`
	BookableID   string    `json:"bookable_id"`
	BookableName string    `json:"bookable_name,omitempty"`
	CheckInDate  string    `json:"check_in_date"`
	CheckOutDate string    `json:"check_out_date"`
	TotalPrice   float64   `json:"total_price"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}
