package wire

import (
	"net/http"

	"tourism-booking/internal/adaptor"
	"tourism-booking/internal/data/repository"
	"tourism-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, repo *repository.Repository, limit func(http.Handler) http.Handler, log *zap.Logger) {
	r.With(limit).Post("/api/auth/register", authHandler.Register)
	r.With(limit).Post("/api/auth/login", authHandler.Login)

	r.With(middleware.AuthSession(repo.Session, repo.User, log)).
		Post("/api/auth/logout", authHandler.Logout)
}
