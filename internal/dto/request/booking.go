package request

type CreateBookingRequest struct {
	BookableType    string  `json:"bookable_type" validate:"required,oneof=hotel yacht"`
	BookableID      string  `json:"bookable_id" validate:"required,uuid4"`
	CheckInDate     string  `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate    string  `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	GuestsCount     int     `json:"guests_count" validate:"required,min=1"`
	PaymentMethod   string  `json:"payment_method" validate:"required,oneof=credit_card paypal bank_transfer"`
	SpecialRequests *string `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

type UpdateBookingRequest struct {
	CheckInDate     *string `json:"check_in_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CheckOutDate    *string `json:"check_out_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	GuestsCount     *int    `json:"guests_count,omitempty" validate:"omitempty,min=1"`
	SpecialRequests *string `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

type CheckAvailabilityRequest struct {
	BookableType string `json:"bookable_type" validate:"required,oneof=hotel yacht"`
	BookableID   string `json:"bookable_id" validate:"required,uuid4"`
	CheckInDate  string `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate string `json:"check_out_date" validate:"required,datetime=2006-01-02"`
}
