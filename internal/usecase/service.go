package usecase

import (
	"context"

	"movie-reservation/internal/catalog"
	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/data/repository"
	"movie-reservation/pkg/event"
	"movie-reservation/pkg/utils"

	"go.uber.org/zap"
)

// MovieCatalog is the read side of the remote movie catalog.
type MovieCatalog interface {
	Movies(ctx context.Context, q catalog.MovieQuery) []*entity.Movie
	Movie(ctx context.Context, id int64) *entity.Movie
	MovieByShortURL(ctx context.Context, shortURL string) *entity.Movie
	Genres(ctx context.Context, search string) []entity.Genre
	Actors(ctx context.Context, search string) []entity.Actor
	Directors(ctx context.Context, search string) []entity.Director
	Runtimes(ctx context.Context) []int
}

type Service struct {
	Auth        AuthService
	User        UserService
	Movie       MovieService
	Screening   ScreeningService
	Reservation ReservationService
	Review      ReviewService
}

func NewService(
	repo *repository.Repository,
	movies MovieCatalog,
	publisher event.Publisher,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	if publisher == nil {
		publisher = event.Nop{}
	}
	screening := NewScreeningService(repo.Screening, movies, publisher, log,
		WithMaxMovies(config.Catalog.MaxMovies))
	review := NewReviewService(repo.Review, log)

	return &Service{
		Auth:        NewAuthService(repo, config, log),
		User:        NewUserService(repo.User, log),
		Movie:       NewMovieService(movies, screening, review, log),
		Screening:   screening,
		Reservation: NewReservationService(repo, publisher, log),
		Review:      review,
	}
}

func publish(ctx context.Context, p event.Publisher, log *zap.Logger, e event.Event) {
	if err := p.Publish(ctx, e); err != nil {
		log.Warn("Failed to publish event", zap.Error(err), zap.String("kind", string(e.Kind)))
	}
}
