package wire

import (
	"net/http"

	"tourism-booking/internal/adaptor"
	"tourism-booking/internal/data/repository"
	"tourism-booking/internal/notify"
	"tourism-booking/internal/usecase"
	"tourism-booking/pkg/database"
	"tourism-booking/pkg/middleware"
	"tourism-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds the service, handler, and router graph.
func Wiring(
	db database.PgxIface,
	repo *repository.Repository,
	notifier notify.Notifier,
	redisClient *redis.Client,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(db, repo, notifier, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, redisClient, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	redisClient *redis.Client,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	// Throttling is scoped per route group, not global: auth gets a
	// tight budget, booking creation a looser one.
	rl := config.RateLimit
	authLimit := middleware.RateLimit(redisClient, "auth", rl.AuthRequests, rl.Window, rl.Enabled, logger)
	bookingLimit := middleware.RateLimit(redisClient, "booking", rl.BookingRequests, rl.Window, rl.Enabled, logger)

	wireAuth(r, handler.Auth, repo, authLimit, logger)
	wireUser(r, handler.User, repo, logger)
	wireHotel(r, handler.Hotel, repo, logger)
	wireYacht(r, handler.Yacht, repo, logger)
	wireBooking(r, handler.Booking, repo, bookingLimit, logger)
	wireReview(r, handler.Review, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
