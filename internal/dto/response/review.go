package response

import (
	"time"

	"tourism-booking/internal/data/entity"
)

type ReviewResponse struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	BookableType entity.BookableKind `json:"bookable_type"`
	BookableID   string              `json:"bookable_id"`
	Rating       int                 `json:"rating"`
	Comment      *string             `json:"comment,omitempty"`
	IsVerified   bool                `json:"is_verified"`
	CreatedAt    time.Time           `json:"created_at"`
}

type RatingSummaryResponse struct {
	BookableType  entity.BookableKind `json:"bookable_type"`
	BookableID    string              `json:"bookable_id"`
	AverageRating float64             `json:"average_rating"`
	ReviewCount   int64               `json:"review_count"`
}

func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:           review.ID.String(),
		UserID:       review.UserID.String(),
		BookableType: review.Bookable.Kind,
		BookableID:   review.Bookable.ID.String(),
		Rating:       review.Rating,
		Comment:      review.Comment,
		IsVerified:   review.IsVerified,
		CreatedAt:    review.CreatedAt,
	}
}

func ReviewsToResponse(reviews []*entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewToResponse(r))
	}
	return out
}
