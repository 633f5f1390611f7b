package usecase

import (
	"context"
	"fmt"

	"movie-reservation/internal/data/repository"
	"movie-reservation/internal/dto/request"
	"movie-reservation/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	GetMovieReviews(ctx context.Context, movieID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetUserReviews(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)

	// GetAverageRating is 0 for a movie nobody has rated.
	GetAverageRating(ctx context.Context, movieID int64) (float64, error)
	GetMovieReviewStats(ctx context.Context, movieID int64) (*response.MovieReviewStats, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	log        *zap.Logger
}

func NewReviewService(reviewRepo repository.ReviewRepository, log *zap.Logger) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		log:        log.With(zap.String("service", "review")),
	}
}

func normalizePage(req *request.PaginatedRequest) *request.PaginatedRequest {
	if req == nil {
		req = &request.PaginatedRequest{}
	}
	req.Normalize()
	return req
}

func (s *reviewService) GetMovieReviews(ctx context.Context, movieID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	req = normalizePage(req)

	reviews, err := s.reviewRepo.FindByMovieID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to get movie reviews", zap.Error(err), zap.Int64("movie_id", movieID))
		return nil, fmt.Errorf("get reviews for movie %d: %w", movieID, err)
	}

	return response.Paginate(response.ReviewsToResponse(reviews), req.Page, req.PerPage), nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	req = normalizePage(req)

	reviews, err := s.reviewRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to get user reviews", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("get reviews for user %s: %w", userID, err)
	}

	return response.Paginate(response.ReviewsToResponse(reviews), req.Page, req.PerPage), nil
}

func (s *reviewService) GetAverageRating(ctx context.Context, movieID int64) (float64, error) {
	avg, _, err := s.reviewRepo.GetMovieReviewStats(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to get average rating", zap.Error(err), zap.Int64("movie_id", movieID))
		return 0, fmt.Errorf("get average rating for movie %d: %w", movieID, err)
	}
	return avg, nil
}

func (s *reviewService) GetMovieReviewStats(ctx context.Context, movieID int64) (*response.MovieReviewStats, error) {
	avg, count, err := s.reviewRepo.GetMovieReviewStats(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to get review stats", zap.Error(err), zap.Int64("movie_id", movieID))
		return nil, fmt.Errorf("get review stats for movie %d: %w", movieID, err)
	}
	return &response.MovieReviewStats{
		MovieID:       movieID,
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}
