package request

type CreateYachtRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=150"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location    string  `json:"location" validate:"required,min=2,max=100"`
	PricePerDay float64 `json:"price_per_day" validate:"required,gt=0"`
	Capacity    int     `json:"capacity" validate:"required,min=1"`
	Length      float64 `json:"length" validate:"required,gt=0"`
	CrewSize    int     `json:"crew_size" validate:"min=0"`
}

type UpdateYachtRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,min=2,max=100"`
	PricePerDay *float64 `json:"price_per_day,omitempty" validate:"omitempty,gt=0"`
	Capacity    *int     `json:"capacity,omitempty" validate:"omitempty,min=1"`
	Length      *float64 `json:"length,omitempty" validate:"omitempty,gt=0"`
	CrewSize    *int     `json:"crew_size,omitempty" validate:"omitempty,min=0"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type YachtListRequest struct {
	PaginatedRequest
	Location    *string  `json:"location,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice    *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	MinCapacity *int     `json:"min_capacity,omitempty" validate:"omitempty,min=1"`
}
