package wire

import (
	"tourism-booking/internal/adaptor"
	"tourism-booking/internal/data/repository"
	"tourism-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireHotel(r chi.Router, hotelHandler *adaptor.HotelHandler, repo *repository.Repository, log *zap.Logger) {
	r.Get("/api/hotels", hotelHandler.GetHotels)
	r.Get("/api/hotels/popular", hotelHandler.GetPopularHotels)
	r.Get("/api/hotels/{id}", hotelHandler.GetHotel)

	r.Route("/api/admin/hotels", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/", hotelHandler.CreateHotel)
		r.Put("/{id}", hotelHandler.UpdateHotel)
		r.Delete("/{id}", hotelHandler.DeleteHotel)
	})
}
