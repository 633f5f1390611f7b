package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"movie-reservation/internal/catalog"
	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/data/repository"
	"movie-reservation/pkg/event"
	"movie-reservation/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCatalog struct {
	movies []*entity.Movie
}

func (f *fakeCatalog) Movies(context.Context, catalog.MovieQuery) []*entity.Movie { return f.movies }

func (f *fakeCatalog) Movie(_ context.Context, id int64) *entity.Movie {
	for _, m := range f.movies {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (f *fakeCatalog) MovieByShortURL(_ context.Context, short string) *entity.Movie {
	for _, m := range f.movies {
		if m.ShortURL == short {
			return m
		}
	}
	return nil
}

func (f *fakeCatalog) Genres(context.Context, string) []entity.Genre       { return []entity.Genre{} }
func (f *fakeCatalog) Actors(context.Context, string) []entity.Actor       { return []entity.Actor{} }
func (f *fakeCatalog) Directors(context.Context, string) []entity.Director { return []entity.Director{} }
func (f *fakeCatalog) Runtimes(context.Context) []int                      { return []int{} }

func movies(n int) []*entity.Movie {
	out := make([]*entity.Movie, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &entity.Movie{ID: int64(i), Title: "Movie", ShortURL: "m" + string(rune('a'+i%26))})
	}
	return out
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Publish(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) kinds() []event.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

type testEnv struct {
	repo    *repository.Repository
	catalog *fakeCatalog
	events  *recorder
	svc     *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	repo := repository.NewMemoryRepository(log)
	cat := &fakeCatalog{movies: movies(3)}
	rec := &recorder{}
	cfg := &utils.Config{
		Catalog: utils.CatalogConfig{MaxMovies: 15},
		Session: utils.SessionConfig{ExpiryHours: 1},
	}
	return &testEnv{
		repo:    repo,
		catalog: cat,
		events:  rec,
		svc:     NewService(repo, cat, rec, cfg, log),
	}
}

func (e *testEnv) addScreening(t *testing.T, movieID int64, price, seats int) *entity.Screening {
	t.Helper()
	now := time.Now()
	s := &entity.Screening{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		MovieID:        movieID,
		Date:           now.Format(time.DateOnly),
		Time:           "20:00",
		Hall:           entity.HallA,
		Price:          price,
		AvailableSeats: seats,
	}
	require.NoError(t, e.repo.Screening.Create(context.Background(), s))
	return s
}

func (e *testEnv) seats(t *testing.T, id uuid.UUID) int {
	t.Helper()
	s, err := e.repo.Screening.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.AvailableSeats
}

func (e *testEnv) addUser(t *testing.T, first, last string) uuid.UUID {
	t.Helper()
	u := &entity.User{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		FirstName: first,
		LastName:  last,
		Username:  first + uuid.NewString()[:6],
		Email:     uuid.NewString()[:8] + "@example.com",
		Role:      entity.RoleCustomer,
		IsActive:  true,
	}
	require.NoError(t, e.repo.User.Create(context.Background(), u))
	return u.ID
}
