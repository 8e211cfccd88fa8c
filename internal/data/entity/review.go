package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseSimple
	UserID     uuid.UUID   `db:"user_id"`
	Bookable   BookableRef `db:"bookable"`
	BookingID  *uuid.UUID  `db:"booking_id"`
	Rating     int         `db:"rating"` // 1-5
	Comment    *string     `db:"comment"`
	IsVerified bool        `db:"is_verified"`
}
