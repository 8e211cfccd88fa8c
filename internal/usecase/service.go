package usecase

import (
	"tourism-booking/internal/data/repository"
	"tourism-booking/internal/notify"
	"tourism-booking/pkg/database"
	"tourism-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Hotel   HotelService
	Yacht   YachtService
	Booking BookingService
	Review  ReviewService
}

func NewService(db database.PgxIface, repo *repository.Repository, notifier notify.Notifier, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		User:    NewUserService(repo.User, log),
		Hotel:   NewHotelService(repo.Hotel, log),
		Yacht:   NewYachtService(repo.Yacht, log),
		Booking: NewBookingService(db, repo, notifier, log),
		Review:  NewReviewService(repo, log),
	}
}
