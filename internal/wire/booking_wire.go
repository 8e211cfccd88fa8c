package wire

import (
	"net/http"

	"tourism-booking/internal/adaptor"
	"tourism-booking/internal/data/repository"
	"tourism-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, repo *repository.Repository, limit func(http.Handler) http.Handler, log *zap.Logger) {
	// Availability is public so visitors can check dates before signup.
	r.Get("/api/availability", bookingHandler.CheckAvailability)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.With(limit).Post("/api/bookings", bookingHandler.CreateBooking)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Put("/api/bookings/{id}", bookingHandler.UpdateBooking)
		r.Post("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Get("/", bookingHandler.ListBookings)
		r.Post("/{id}/confirm", bookingHandler.ConfirmBooking)
		r.Post("/{id}/cancel", bookingHandler.CancelBooking)
	})
}
