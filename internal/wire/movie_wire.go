package wire

import (
	"movie-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// Catalog reads are public.
func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler, reviewHandler *adaptor.ReviewHandler) {
	r.Get("/api/movies", movieHandler.GetMovies)
	r.Get("/api/movies/{id}", movieHandler.GetMovie)
	r.Get("/api/movies/{id}/reviews", reviewHandler.GetMovieReviews)
	r.Get("/api/movies/{id}/rating", reviewHandler.GetMovieRating)

	r.Get("/api/genres", movieHandler.GetGenres)
	r.Get("/api/actors", movieHandler.GetActors)
	r.Get("/api/directors", movieHandler.GetDirectors)
	r.Get("/api/runtimes", movieHandler.GetRuntimes)
}
