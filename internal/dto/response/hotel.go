package response

import (
	"time"

	"tourism-booking/internal/data/entity"
)

type HotelResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	City          string    `json:"city"`
	Address       string    `json:"address"`
	PricePerNight float64   `json:"price_per_night"`
	Rating        float64   `json:"rating"`
	Stars         int       `json:"stars"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func HotelToResponse(hotel *entity.Hotel) HotelResponse {
	return HotelResponse{
		ID:            hotel.ID.String(),
		Name:          hotel.Name,
		Description:   hotel.Description,
		City:          hotel.City,
		Address:       hotel.Address,
		PricePerNight: hotel.PricePerNight,
		Rating:        hotel.Rating,
		Stars:         hotel.Stars,
		IsActive:      hotel.IsActive,
		CreatedAt:     hotel.CreatedAt,
	}
}

func HotelsToResponse(hotels []*entity.Hotel) []HotelResponse {
	out := make([]HotelResponse, 0, len(hotels))
	for _, h := range hotels {
		out = append(out, HotelToResponse(h))
	}
	return out
}
