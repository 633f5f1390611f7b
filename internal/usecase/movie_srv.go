package usecase

import (
	"context"
	"fmt"

	"movie-reservation/internal/catalog"
	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/dto/response"

	"go.uber.org/zap"
)

// MovieService serves catalog data enriched with local ratings and screenings.
type MovieService interface {
	GetMovies(ctx context.Context, q catalog.MovieQuery) []*entity.Movie
	// GetMovie returns nil when the catalog does not know the movie.
	GetMovie(ctx context.Context, id int64) (*response.MovieDetailResponse, error)
	GetMovieByShortURL(ctx context.Context, shortURL string) (*response.MovieDetailResponse, error)
	GetGenres(ctx context.Context, search string) []entity.Genre
	GetActors(ctx context.Context, search string) []entity.Actor
	GetDirectors(ctx context.Context, search string) []entity.Director
	GetRuntimes(ctx context.Context) []int
}

type movieService struct {
	catalog    MovieCatalog
	screenings ScreeningService
	reviews    ReviewService
	log        *zap.Logger
}

func NewMovieService(
	movies MovieCatalog,
	screenings ScreeningService,
	reviews ReviewService,
	log *zap.Logger,
) MovieService {
	return &movieService{
		catalog:    movies,
		screenings: screenings,
		reviews:    reviews,
		log:        log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context, q catalog.MovieQuery) []*entity.Movie {
	return s.catalog.Movies(ctx, q)
}

func (s *movieService) GetMovie(ctx context.Context, id int64) (*response.MovieDetailResponse, error) {
	return s.detail(ctx, s.catalog.Movie(ctx, id))
}

func (s *movieService) GetMovieByShortURL(ctx context.Context, shortURL string) (*response.MovieDetailResponse, error) {
	return s.detail(ctx, s.catalog.MovieByShortURL(ctx, shortURL))
}

func (s *movieService) detail(ctx context.Context, movie *entity.Movie) (*response.MovieDetailResponse, error) {
	if movie == nil {
		return nil, nil
	}

	stats, err := s.reviews.GetMovieReviewStats(ctx, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("movie %d detail: %w", movie.ID, err)
	}

	screenings, err := s.screenings.GetScreeningsByMovie(ctx, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("movie %d detail: %w", movie.ID, err)
	}
	for _, sc := range screenings {
		sc.Movie = nil
	}

	return &response.MovieDetailResponse{
		Movie:         movie,
		AverageRating: stats.AverageRating,
		ReviewCount:   stats.ReviewCount,
		Screenings:    response.ScreeningsToResponse(screenings),
	}, nil
}

func (s *movieService) GetGenres(ctx context.Context, search string) []entity.Genre {
	return s.catalog.Genres(ctx, search)
}

func (s *movieService) GetActors(ctx context.Context, search string) []entity.Actor {
	return s.catalog.Actors(ctx, search)
}

func (s *movieService) GetDirectors(ctx context.Context, search string) []entity.Director {
	return s.catalog.Directors(ctx, search)
}

func (s *movieService) GetRuntimes(ctx context.Context) []int {
	return s.catalog.Runtimes(ctx)
}
