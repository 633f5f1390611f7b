package response

import (
	"movie-reservation/internal/data/entity"
)

type ScreeningResponse struct {
	ID             string        `json:"id"`
	MovieID        int64         `json:"movie_id"`
	Movie          *entity.Movie `json:"movie,omitempty"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	Hall           string        `json:"hall"`
	Price          int           `json:"price"`
	AvailableSeats int           `json:"available_seats"`
}

func ScreeningToResponse(s *entity.Screening) ScreeningResponse {
	return ScreeningResponse{
		ID:             s.ID.String(),
		MovieID:        s.MovieID,
		Movie:          s.Movie,
		Date:           s.Date,
		Time:           s.Time,
		Hall:           s.Hall,
		Price:          s.Price,
		AvailableSeats: s.AvailableSeats,
	}
}

func ScreeningsToResponse(screenings []*entity.Screening) []ScreeningResponse {
	out := make([]ScreeningResponse, 0, len(screenings))
	for _, s := range screenings {
		out = append(out, ScreeningToResponse(s))
	}
	return out
}

// MovieDetailResponse is a catalog movie plus local ratings and schedule.
type MovieDetailResponse struct {
	*entity.Movie
	AverageRating float64             `json:"average_rating"`
	ReviewCount   int64               `json:"review_count"`
	Screenings    []ScreeningResponse `json:"screenings"`
}
