package wire

import (
	"tourism-booking/internal/adaptor"
	"tourism-booking/internal/data/repository"
	"tourism-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireYacht(r chi.Router, yachtHandler *adaptor.YachtHandler, repo *repository.Repository, log *zap.Logger) {
	r.Get("/api/yachts", yachtHandler.GetYachts)
	r.Get("/api/yachts/popular", yachtHandler.GetPopularYachts)
	r.Get("/api/yachts/{id}", yachtHandler.GetYacht)

	r.Route("/api/admin/yachts", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/", yachtHandler.CreateYacht)
		r.Put("/{id}", yachtHandler.UpdateYacht)
		r.Delete("/{id}", yachtHandler.DeleteYacht)
	})
}
