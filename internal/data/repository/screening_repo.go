package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-reservation/internal/data/entity"
	"movie-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ScreeningRepository interface {
	// ReplaceAll swaps the whole schedule for a freshly generated one.
	ReplaceAll(ctx context.Context, screenings []*entity.Screening) error
	Create(ctx context.Context, screening *entity.Screening) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error)
	Find(ctx context.Context, filter entity.ScreeningFilter) ([]*entity.Screening, error)
	Update(ctx context.Context, screening *entity.Screening) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type scanner interface {
	Scan(dest ...any) error
}

const screeningColumns = `id, movie_id, movie, to_char(show_date, 'YYYY-MM-DD'), show_time, hall, price, available_seats, created_at, updated_at`

type screeningRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScreeningRepository(db database.PgxIface, log *zap.Logger) ScreeningRepository {
	return &screeningRepository{
		db:  db,
		log: log.With(zap.String("repository", "screening")),
	}
}

func scanScreening(row scanner) (*entity.Screening, error) {
	var s entity.Screening
	err := row.Scan(
		&s.ID,
		&s.MovieID,
		&s.Movie,
		&s.Date,
		&s.Time,
		&s.Hall,
		&s.Price,
		&s.AvailableSeats,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const insertScreening = `
	INSERT INTO screenings (id, movie_id, movie, show_date, show_time, hall, price, available_seats, created_at, updated_at)
	VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10)
`

func (r *screeningRepository) ReplaceAll(ctx context.Context, screenings []*entity.Screening) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace screenings: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM screenings`); err != nil {
		r.log.Error("Failed to clear screenings", zap.Error(err))
		return fmt.Errorf("clear screenings: %w", err)
	}

	batch := &pgx.Batch{}
	for _, s := range screenings {
		batch.Queue(insertScreening,
			s.ID, s.MovieID, s.Movie, s.Date, s.Time, s.Hall, s.Price, s.AvailableSeats, s.CreatedAt, s.UpdatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.log.Error("Failed to insert screenings", zap.Error(err), zap.Int("count", len(screenings)))
		return fmt.Errorf("insert screenings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace screenings: %w", err)
	}
	return nil
}

func (r *screeningRepository) Create(ctx context.Context, s *entity.Screening) error {
	_, err := r.db.Exec(ctx, insertScreening,
		s.ID, s.MovieID, s.Movie, s.Date, s.Time, s.Hall, s.Price, s.AvailableSeats, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to create screening",
			zap.Error(err),
			zap.Int64("movie_id", s.MovieID),
			zap.String("date", s.Date),
		)
		return fmt.Errorf("create screening for movie %d: %w", s.MovieID, err)
	}
	return nil
}

func (r *screeningRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Screening, error) {
	query := `SELECT ` + screeningColumns + ` FROM screenings WHERE id = $1`

	s, err := scanScreening(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find screening by ID",
			zap.Error(err),
			zap.String("screening_id", id.String()),
		)
		return nil, fmt.Errorf("find screening by ID %s: %w", id.String(), err)
	}
	return s, nil
}

func (r *screeningRepository) Find(ctx context.Context, f entity.ScreeningFilter) ([]*entity.Screening, error) {
	query := `SELECT ` + screeningColumns + ` FROM screenings WHERE TRUE`
	var args []any

	if f.Date != nil {
		args = append(args, *f.Date)
		query += fmt.Sprintf(" AND show_date = $%d::date", len(args))
	}
	if f.MovieID != nil {
		args = append(args, *f.MovieID)
		query += fmt.Sprintf(" AND movie_id = $%d", len(args))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		query += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		query += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	query += " ORDER BY show_date, show_time, hall"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find screenings", zap.Error(err))
		return nil, fmt.Errorf("find screenings: %w", err)
	}
	defer rows.Close()

	screenings := make([]*entity.Screening, 0)
	for rows.Next() {
		s, err := scanScreening(rows)
		if err != nil {
			r.log.Error("Failed to scan screening row", zap.Error(err))
			return nil, fmt.Errorf("scan screening row: %w", err)
		}
		screenings = append(screenings, s)
	}
	return screenings, rows.Err()
}

func (r *screeningRepository) Update(ctx context.Context, s *entity.Screening) error {
	query := `
		UPDATE screenings
		SET movie_id = $2, movie = $3, show_date = $4::date, show_time = $5, hall = $6,
		    price = $7, available_seats = $8, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		s.ID, s.MovieID, s.Movie, s.Date, s.Time, s.Hall, s.Price, s.AvailableSeats)
	if err != nil {
		r.log.Error("Failed to update screening",
			zap.Error(err),
			zap.String("screening_id", s.ID.String()),
		)
		return fmt.Errorf("update screening %s: %w", s.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("screening %s: %w", s.ID.String(), ErrNotFound)
	}
	return nil
}

func (r *screeningRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM screenings WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete screening",
			zap.Error(err),
			zap.String("screening_id", id.String()),
		)
		return fmt.Errorf("delete screening %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("screening %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Screening deleted", zap.String("screening_id", id.String()))
	return nil
}
