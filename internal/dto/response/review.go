package response

import (
	"time"

	"movie-reservation/internal/data/entity"
)

type ReviewResponse struct {
	ID       string    `json:"id"`
	MovieID  int64     `json:"movie_id"`
	UserID   string    `json:"user_id"`
	UserName string    `json:"user_name"`
	Rating   float64   `json:"rating"`
	Comment  string    `json:"comment"`
	Date     time.Time `json:"date"`
}

type MovieReviewStats struct {
	MovieID       int64   `json:"movie_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:       review.ID.String(),
		MovieID:  review.MovieID,
		UserID:   review.UserID.String(),
		UserName: review.UserName,
		Rating:   review.Rating,
		Comment:  review.Comment,
		Date:     review.CreatedAt,
	}
}

func ReviewsToResponse(reviews []*entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, ReviewToResponse(rv))
	}
	return out
}
