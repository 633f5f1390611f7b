package repository

import (
	"context"
	"fmt"

	"movie-reservation/internal/data/entity"
	"movie-reservation/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	// Upsert keeps at most one review per (movie, user).
	Upsert(ctx context.Context, review *entity.Review) (*entity.Review, error)
	FindByMovieID(ctx context.Context, movieID int64) ([]*entity.Review, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Review, error)
	// GetMovieReviewStats returns the mean rating and review count; zero when unrated.
	GetMovieReviewStats(ctx context.Context, movieID int64) (float64, int64, error)
}

const reviewColumns = `id, movie_id, user_id, user_name, rating, comment, created_at`

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func scanReview(row scanner) (*entity.Review, error) {
	var rv entity.Review
	err := row.Scan(&rv.ID, &rv.MovieID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

const upsertReviewQuery = `
	INSERT INTO reviews (id, movie_id, user_id, user_name, rating, comment, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (movie_id, user_id) DO UPDATE
	SET user_name = EXCLUDED.user_name,
	    rating = EXCLUDED.rating,
	    comment = EXCLUDED.comment,
	    created_at = EXCLUDED.created_at
	RETURNING ` + reviewColumns

// upsertReview runs on the pool or inside a transaction.
func upsertReview(ctx context.Context, q queryRower, review *entity.Review) (*entity.Review, error) {
	return scanReview(q.QueryRow(ctx, upsertReviewQuery,
		review.ID,
		review.MovieID,
		review.UserID,
		review.UserName,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	))
}

func (r *reviewRepository) Upsert(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	saved, err := upsertReview(ctx, r.db, review)
	if err != nil {
		r.log.Error("Failed to upsert review",
			zap.Error(err),
			zap.Int64("movie_id", review.MovieID),
			zap.String("user_id", review.UserID.String()),
		)
		return nil, fmt.Errorf("upsert review for movie %d: %w", review.MovieID, err)
	}
	return saved, nil
}

func (r *reviewRepository) findMany(ctx context.Context, where string, arg any) ([]*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE ` + where + ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		r.log.Error("Failed to find reviews", zap.Error(err), zap.String("where", where))
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*entity.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) FindByMovieID(ctx context.Context, movieID int64) ([]*entity.Review, error) {
	return r.findMany(ctx, "movie_id = $1", movieID)
}

func (r *reviewRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Review, error) {
	return r.findMany(ctx, "user_id = $1", userID)
}

func (r *reviewRepository) GetMovieReviewStats(ctx context.Context, movieID int64) (float64, int64, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews
		WHERE movie_id = $1
	`

	var avg float64
	var count int64
	if err := r.db.QueryRow(ctx, query, movieID).Scan(&avg, &count); err != nil {
		r.log.Error("Failed to get movie review stats",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return 0, 0, fmt.Errorf("get review stats for movie %d: %w", movieID, err)
	}
	return avg, count, nil
}
