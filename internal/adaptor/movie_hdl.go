package adaptor

import (
	"net/http"
	"strconv"

	"movie-reservation/internal/catalog"
	"movie-reservation/internal/dto/response"
	"movie-reservation/internal/usecase"
	"movie-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// GetMovies handles GET /api/movies?search=&actor=&genre=&director=&runtime=
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := catalog.MovieQuery{Search: query.Get("search")}

	ids := map[string]*int64{"actor": &q.Actor, "genre": &q.Genre, "director": &q.Director}
	for name, dst := range ids {
		v := query.Get(name)
		if v == "" {
			continue
		}
		id, ok := utils.ParseInt64(v)
		if !ok {
			utils.ResponseBadRequest(w, "Invalid "+name+" filter", nil)
			return
		}
		*dst = id
	}

	if v := query.Get("runtime"); v != "" {
		runtime, err := strconv.Atoi(v)
		if err != nil || runtime < 1 {
			utils.ResponseBadRequest(w, "Invalid runtime filter", nil)
			return
		}
		q.Runtime = runtime
	}

	utils.ResponseSuccess(w, "success", h.service.GetMovies(r.Context(), q))
}

// GetMovie handles GET /api/movies/{id}. A non-numeric id is looked up as a short URL.
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "id")

	var (
		movie *response.MovieDetailResponse
		err   error
	)
	if id, ok := utils.ParseInt64(param); ok {
		movie, err = h.service.GetMovie(r.Context(), id)
	} else {
		movie, err = h.service.GetMovieByShortURL(r.Context(), param)
	}
	if err != nil {
		handleServiceError(w, h.log, err, "get movie")
		return
	}
	if movie == nil {
		utils.ResponseNotFound(w, "Movie not found")
		return
	}

	utils.ResponseSuccess(w, "Movie retrieved successfully", movie)
}

// GetGenres handles GET /api/genres
func (h *MovieHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.GetGenres(r.Context(), r.URL.Query().Get("search")))
}

// GetActors handles GET /api/actors
func (h *MovieHandler) GetActors(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.GetActors(r.Context(), r.URL.Query().Get("search")))
}

// GetDirectors handles GET /api/directors
func (h *MovieHandler) GetDirectors(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.GetDirectors(r.Context(), r.URL.Query().Get("search")))
}

// GetRuntimes handles GET /api/runtimes
func (h *MovieHandler) GetRuntimes(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.GetRuntimes(r.Context()))
}
