package request

type CreateHotelRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=150"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	City          string  `json:"city" validate:"required,min=2,max=100"`
	Address       string  `json:"address" validate:"required,max=255"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gt=0"`
	Stars         int     `json:"stars" validate:"required,min=1,max=5"`
}

type UpdateHotelRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	City          *string  `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	Address       *string  `json:"address,omitempty" validate:"omitempty,max=255"`
	PricePerNight *float64 `json:"price_per_night,omitempty" validate:"omitempty,gt=0"`
	Stars         *int     `json:"stars,omitempty" validate:"omitempty,min=1,max=5"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

type HotelListRequest struct {
	PaginatedRequest
	City     *string  `json:"city,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	Stars    *int     `json:"stars,omitempty" validate:"omitempty,min=1,max=5"`
}
