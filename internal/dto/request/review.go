package request

type CreateReviewRequest struct {
	BookableType string  `json:"bookable_type" validate:"required,oneof=hotel yacht"`
	BookableID   string  `json:"bookable_id" validate:"required,uuid4"`
	BookingID    *string `json:"booking_id,omitempty" validate:"omitempty,uuid4"`
	Rating       int     `json:"rating" validate:"required,min=1,max=5"`
	Comment      *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}
