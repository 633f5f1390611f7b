package wire

import (
	"context"
	"net/http"

	"movie-reservation/internal/adaptor"
	"movie-reservation/internal/data/repository"
	"movie-reservation/internal/usecase"
	"movie-reservation/pkg/middleware"
	"movie-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds handlers on top of service and mounts every route.
// ctx bounds background work started by middleware.
func Wiring(ctx context.Context, service *usecase.Service, repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(ctx, handler, repo, config, logger),
	}
}

func setupRouter(
	ctx context.Context,
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	if config.App.RateLimit > 0 {
		r.Use(middleware.RateLimitIP(ctx, config.App.RateLimit, config.App.RateBurst, logger))
	}

	auth := middleware.AuthSession(repo.Session, logger)

	wireAuth(r, handler.Auth, auth)
	wireUser(r, handler.User, handler.Review, auth)
	wireMovie(r, handler.Movie, handler.Review)
	wireScreening(r, handler.Screening, auth, middleware.Admin(repo.User, logger))
	wireReservation(r, handler.Reservation, auth)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
