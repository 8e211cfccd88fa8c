package repository

import (
	"tourism-booking/pkg/crypto"
	"tourism-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Session  SessionRepository
	Hotel    HotelRepository
	Yacht    YachtRepository
	Bookable BookableRepository
	Booking  BookingRepository
	Review   ReviewRepository
}

func NewRepository(db database.PgxIface, cipher *crypto.FieldCipher, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, cipher, log),
		Session:  NewSessionRepository(db, log),
		Hotel:    NewHotelRepository(db, log),
		Yacht:    NewYachtRepository(db, log),
		Bookable: NewBookableRepository(db, log),
		Booking:  NewBookingRepository(db, cipher, log),
		Review:   NewReviewRepository(db, log),
	}
}
