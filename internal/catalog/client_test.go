package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"movie-reservation/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const movieJSON = `{
	"movieId": 7,
	"title": "Heat",
	"description": "Crime drama",
	"shortUrl": "heat",
	"poster": "https://img.example/heat.jpg",
	"runtime": 170,
	"startDate": "1995-12-15",
	"director": {"directorId": 3, "name": "Michael Mann"},
	"movieActors": [{"actor": {"actorId": 11, "name": "Al Pacino"}}, {"actor": {"actorId": 12, "name": "Robert De Niro"}}],
	"movieGenres": [{"genre": {"genreId": 1, "name": "Crime"}}, {"genre": {"genreId": 1, "name": "Crime"}}, {"genre": {"genreId": 2, "name": "Thriller"}}]
}`

func newTestServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/movie", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("search") == "none" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[` + movieJSON + `, {"id": 8, "title": "Bare", "coverUrl": "local.png"}]`))
	})
	mux.HandleFunc("/movie/7", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(movieJSON))
	})
	mux.HandleFunc("/movie/runtime", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[90, 120, 170]`))
	})
	mux.HandleFunc("/genre", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"genreId": 1, "name": "Crime"}, {"genreId": 2, "name": "Thriller"}]`))
	})
	mux.HandleFunc("/actor", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pac", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`[{"actorId": 11, "name": "Al Pacino"}]`))
	})
	mux.HandleFunc("/director", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_MoviesNormalizes(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	c := NewClient(srv.URL, zap.NewNop())

	movies := c.Movies(context.Background(), MovieQuery{})
	require.Len(t, movies, 2)

	heat := movies[0]
	assert.Equal(t, int64(7), heat.ID)
	assert.Equal(t, "https://img.example/heat.jpg", heat.CoverURL)
	assert.Equal(t, "1995-12-15", heat.ReleaseDate)
	assert.Equal(t, 170, heat.Runtime)
	assert.Equal(t, []entity.Genre{{ID: 1, Name: "Crime"}, {ID: 2, Name: "Thriller"}}, heat.Genres)
	assert.Len(t, heat.Actors, 2)
	assert.Equal(t, []entity.Director{{ID: 3, Name: "Michael Mann"}}, heat.Directors)

	bare := movies[1]
	assert.Equal(t, int64(8), bare.ID)
	assert.Equal(t, entity.PlaceholderCover, bare.CoverURL)
	assert.Empty(t, bare.Genres)
	assert.NotNil(t, bare.Genres)
}

func TestClient_MovieAndReferenceData(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	c := NewClient(srv.URL, zap.NewNop())
	ctx := context.Background()

	m := c.Movie(ctx, 7)
	require.NotNil(t, m)
	assert.Equal(t, "Heat", m.Title)

	assert.Nil(t, c.Movie(ctx, 99))
	assert.Empty(t, c.Movies(ctx, MovieQuery{Search: "none"}))
	assert.Equal(t, []int{90, 120, 170}, c.Runtimes(ctx))
	assert.Len(t, c.Genres(ctx, ""), 2)
	assert.Equal(t, []entity.Actor{{ID: 11, Name: "Al Pacino"}}, c.Actors(ctx, "pac"))
}

func TestClient_FailuresDegradeToEmpty(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	c := NewClient(srv.URL, zap.NewNop())

	dirs := c.Directors(context.Background(), "")
	assert.NotNil(t, dirs)
	assert.Empty(t, dirs)

	down := NewClient("http://127.0.0.1:1", zap.NewNop(), WithHTTPClient(&http.Client{Timeout: time.Second}))
	assert.Empty(t, down.Movies(context.Background(), MovieQuery{}))
	assert.Nil(t, down.Movie(context.Background(), 7))
}

func TestMovieQueryValues(t *testing.T) {
	v := MovieQuery{Search: "heat", Genre: 2, Runtime: 120}.values()
	assert.Equal(t, "genre=2&runtime=120&search=heat", v.Encode())
	assert.Empty(t, MovieQuery{}.values())
}

type mapCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	return b, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func TestClient_CacheAvoidsSecondRequest(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, &hits)
	cache := &mapCache{m: make(map[string][]byte)}
	c := NewClient(srv.URL, zap.NewNop(), WithCache(cache, time.Minute), WithRateLimit(100, 10))

	require.NotNil(t, c.Movie(context.Background(), 7))
	require.NotNil(t, c.Movie(context.Background(), 7))
	assert.Equal(t, int32(1), hits.Load())
}
