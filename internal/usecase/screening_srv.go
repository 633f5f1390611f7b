package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"movie-reservation/internal/catalog"
	"movie-reservation/internal/data/entity"
	"movie-reservation/internal/data/repository"
	"movie-reservation/internal/dto/request"
	"movie-reservation/pkg/event"
	"movie-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ticket prices in currency units.
const (
	PriceRegular = 400
	PriceEvening = 500
	PriceWeekend = 550
	PriceVIP     = 750
)

const (
	defaultMaxMovies = 15
	vipProbability   = 0.2
	minSeats         = 50
	maxSeats         = 99
	eveningSlotIndex = 3
	scheduleDays     = 7
)

// TimeSlots are the daily start times, earliest first.
var TimeSlots = []string{"10:00", "12:30", "15:00", "17:30", "20:00", "22:30"}

// TicketPrice applies the tiers in priority order VIP, weekend, evening.
func TicketPrice(vip, weekend, evening bool) int {
	switch {
	case vip:
		return PriceVIP
	case weekend:
		return PriceWeekend
	case evening:
		return PriceEvening
	}
	return PriceRegular
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

type ScreeningService interface {
	// Generate replaces the schedule with screenings for the given movies.
	Generate(ctx context.Context, movies []*entity.Movie) ([]*entity.Screening, error)
	// Bootstrap fetches the catalog and generates the schedule from it.
	Bootstrap(ctx context.Context) error
	GetScreenings(ctx context.Context, filter entity.ScreeningFilter) ([]*entity.Screening, error)
	GetScreeningByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error)
	GetScreeningsByMovie(ctx context.Context, movieID int64) ([]*entity.Screening, error)
	UpdateScreening(ctx context.Context, screening *entity.Screening) error
	AddScreening(ctx context.Context, req *request.ScreeningRequest) (*entity.Screening, error)
	DeleteScreening(ctx context.Context, id uuid.UUID) (bool, error)
}

type ScreeningOption func(*screeningService)

func WithMaxMovies(n int) ScreeningOption {
	return func(s *screeningService) {
		if n > 0 {
			s.maxMovies = n
		}
	}
}

// WithRand makes generation deterministic.
func WithRand(r *rand.Rand) ScreeningOption {
	return func(s *screeningService) { s.rng = r }
}

func WithClock(now func() time.Time) ScreeningOption {
	return func(s *screeningService) { s.now = now }
}

type screeningService struct {
	repo      repository.ScreeningRepository
	movies    MovieCatalog
	publisher event.Publisher
	log       *zap.Logger

	maxMovies int
	now       func() time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

func NewScreeningService(
	repo repository.ScreeningRepository,
	movies MovieCatalog,
	publisher event.Publisher,
	log *zap.Logger,
	opts ...ScreeningOption,
) ScreeningService {
	s := &screeningService{
		repo:      repo,
		movies:    movies,
		publisher: publisher,
		log:       log.With(zap.String("service", "screening")),
		maxMovies: defaultMaxMovies,
		now:       time.Now,
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ==================== GENERATION ====================

func (s *screeningService) Generate(ctx context.Context, movies []*entity.Movie) ([]*entity.Screening, error) {
	if len(movies) > s.maxMovies {
		movies = movies[:s.maxMovies]
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	s.mu.Lock()
	screenings := make([]*entity.Screening, 0, len(movies)*5)
	for _, m := range movies {
		count := 3 + s.rng.IntN(3)
		for range count {
			screenings = append(screenings, s.newScreening(m, today, now))
		}
	}
	s.mu.Unlock()

	if err := s.repo.ReplaceAll(ctx, screenings); err != nil {
		s.log.Error("Failed to store generated screenings", zap.Error(err))
		return nil, fmt.Errorf("store generated screenings: %w", err)
	}

	s.log.Info("Screenings generated",
		zap.Int("movies", len(movies)),
		zap.Int("screenings", len(screenings)),
	)
	publish(ctx, s.publisher, s.log, event.Event{Kind: event.ScreeningsChanged, At: now})
	return screenings, nil
}

// newScreening must be called with s.mu held.
func (s *screeningService) newScreening(m *entity.Movie, today, now time.Time) *entity.Screening {
	date := today.AddDate(0, 0, s.rng.IntN(scheduleDays))
	slot := s.rng.IntN(len(TimeSlots))
	vip := s.rng.Float64() < vipProbability

	hall := entity.HallVIP
	if !vip {
		hall = entity.StandardHalls[s.rng.IntN(len(entity.StandardHalls))]
	}

	return &entity.Screening{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:        m.ID,
		Movie:          m,
		Date:           date.Format(time.DateOnly),
		Time:           TimeSlots[slot],
		Hall:           hall,
		Price:          TicketPrice(vip, isWeekend(date), slot >= eveningSlotIndex),
		AvailableSeats: minSeats + s.rng.IntN(maxSeats-minSeats+1),
	}
}

func (s *screeningService) Bootstrap(ctx context.Context) error {
	movies := s.movies.Movies(ctx, catalog.MovieQuery{})
	if len(movies) == 0 {
		s.log.Warn("Catalog returned no movies, schedule is empty")
	}
	_, err := s.Generate(ctx, movies)
	return err
}

// ==================== QUERIES ====================

func (s *screeningService) GetScreenings(ctx context.Context, filter entity.ScreeningFilter) ([]*entity.Screening, error) {
	screenings, err := s.repo.Find(ctx, filter)
	if err != nil {
		s.log.Error("Failed to get screenings", zap.Error(err))
		return nil, fmt.Errorf("get screenings: %w", err)
	}
	return screenings, nil
}

func (s *screeningService) GetScreeningByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error) {
	screening, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get screening %s: %w", id, err)
	}
	return screening, nil
}

func (s *screeningService) GetScreeningsByMovie(ctx context.Context, movieID int64) ([]*entity.Screening, error) {
	return s.GetScreenings(ctx, entity.ScreeningFilter{MovieID: &movieID})
}

// ==================== ADMIN METHODS ====================

// UpdateScreening replaces the stored screening with the same id. Unknown ids are ignored.
func (s *screeningService) UpdateScreening(ctx context.Context, screening *entity.Screening) error {
	if screening.AvailableSeats < 0 || screening.Price < 0 {
		return fmt.Errorf("%w: price and seats must not be negative", ErrValidation)
	}

	err := s.repo.Update(ctx, screening)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("Update for unknown screening ignored", zap.String("screening_id", screening.ID.String()))
		return nil
	}
	if err != nil {
		s.log.Error("Failed to update screening", zap.Error(err), zap.String("screening_id", screening.ID.String()))
		return fmt.Errorf("update screening: %w", err)
	}

	publish(ctx, s.publisher, s.log, event.Event{
		Kind:        event.ScreeningsChanged,
		ScreeningID: screening.ID,
		At:          s.now(),
	})
	return nil
}

func (s *screeningService) AddScreening(ctx context.Context, req *request.ScreeningRequest) (*entity.Screening, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Add screening validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	movie := s.movies.Movie(ctx, req.MovieID)
	if movie == nil {
		s.log.Warn("Screening added for movie missing from catalog", zap.Int64("movie_id", req.MovieID))
	}

	now := s.now()
	screening := &entity.Screening{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:        req.MovieID,
		Movie:          movie,
		Date:           req.Date,
		Time:           req.Time,
		Hall:           req.Hall,
		Price:          req.Price,
		AvailableSeats: req.AvailableSeats,
	}

	if err := s.repo.Create(ctx, screening); err != nil {
		s.log.Error("Failed to add screening", zap.Error(err))
		return nil, fmt.Errorf("add screening: %w", err)
	}

	s.log.Info("Screening added",
		zap.String("screening_id", screening.ID.String()),
		zap.Int64("movie_id", screening.MovieID),
	)
	publish(ctx, s.publisher, s.log, event.Event{Kind: event.ScreeningsChanged, ScreeningID: screening.ID, At: now})
	return screening, nil
}

func (s *screeningService) DeleteScreening(ctx context.Context, id uuid.UUID) (bool, error) {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		s.log.Error("Failed to delete screening", zap.Error(err), zap.String("screening_id", id.String()))
		return false, fmt.Errorf("delete screening: %w", err)
	}

	publish(ctx, s.publisher, s.log, event.Event{Kind: event.ScreeningsChanged, ScreeningID: id, At: s.now()})
	return true, nil
}
