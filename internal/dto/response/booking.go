package response

import (
	"time"

	"tourism-booking/internal/data/entity"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	Reference       string               `json:"reference"`
	UserID          string               `json:"user_id"`
	BookableType    entity.BookableKind  `json:"bookable_type"`
	BookableID      string               `json:"bookable_id"`
	BookableName    string               `json:"bookable_name,omitempty"`
	CheckInDate     string               `json:"check_in_date"`
	CheckOutDate    string               `json:"check_out_date"`
	GuestsCount     int                  `json:"guests_count"`
	TotalPrice      float64              `json:"total_price"`
	Status          entity.BookingStatus `json:"status"`
	PaymentMethod   string               `json:"payment_method,omitempty"`
	PaymentStatus   entity.PaymentStatus `json:"payment_status"`
	SpecialRequests *string              `json:"special_requests,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

type AvailabilityResponse struct {
	BookableType entity.BookableKind `json:"bookable_type"`
	BookableID   string              `json:"bookable_id"`
	CheckInDate  string              `json:"check_in_date"`
	CheckOutDate string              `json:"check_out_date"`
	Available    bool                `json:"available"`
}

const dateLayout = "2006-01-02"

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              booking.ID.String(),
		Reference:       booking.Reference,
		UserID:          booking.UserID.String(),
		BookableType:    booking.Bookable.Kind,
		BookableID:      booking.Bookable.ID.String(),
		CheckInDate:     booking.CheckIn.Format(dateLayout),
		CheckOutDate:    booking.CheckOut.Format(dateLayout),
		GuestsCount:     booking.GuestsCount,
		TotalPrice:      booking.TotalPrice,
		Status:          booking.Status,
		PaymentMethod:   booking.PaymentMethod,
		PaymentStatus:   booking.PaymentStatus,
		SpecialRequests: booking.SpecialRequests,
		CreatedAt:       booking.CreatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
