package response

import (
	"time"

	"tourism-booking/internal/data/entity"
)

type YachtResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Location    string    `json:"location"`
	PricePerDay float64   `json:"price_per_day"`
	Rating      float64   `json:"rating"`
	Capacity    int       `json:"capacity"`
	Length      float64   `json:"length"`
	CrewSize    int       `json:"crew_size"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func YachtToResponse(yacht *entity.Yacht) YachtResponse {
	return YachtResponse{
		ID:          yacht.ID.String(),
		Name:        yacht.Name,
		Description: yacht.Description,
		Location:    yacht.Location,
		PricePerDay: yacht.PricePerDay,
		Rating:      yacht.Rating,
		Capacity:    yacht.Capacity,
		Length:      yacht.Length,
		CrewSize:    yacht.CrewSize,
		IsActive:    yacht.IsActive,
		CreatedAt:   yacht.CreatedAt,
	}
}

func YachtsToResponse(yachts []*entity.Yacht) []YachtResponse {
	out := make([]YachtResponse, 0, len(yachts))
	for _, y := range yachts {
		out = append(out, YachtToResponse(y))
	}
	return out
}
