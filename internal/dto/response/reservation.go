package response

import (
	"time"

	"movie-reservation/internal/data/entity"
)

type ReservationResponse struct {
	ID              string                   `json:"id"`
	ScreeningID     string                   `json:"screening_id"`
	Screening       *ScreeningResponse       `json:"screening,omitempty"`
	UserID          string                   `json:"user_id"`
	ReservationDate time.Time                `json:"reservation_date"`
	Status          entity.ReservationStatus `json:"status"`
	Rating          *float64                 `json:"rating,omitempty"`
	ReviewText      *string                  `json:"review_text,omitempty"`
}

type CartResponse struct {
	UserID     string                `json:"user_id"`
	Items      []ReservationResponse `json:"items"`
	ItemCount  int                   `json:"item_count"`
	TotalPrice int                   `json:"total_price"`
}

func ReservationToResponse(r *entity.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:              r.ID.String(),
		ScreeningID:     r.ScreeningID.String(),
		UserID:          r.UserID.String(),
		ReservationDate: r.ReservationDate,
		Status:          r.Status,
		Rating:          r.Rating,
		ReviewText:      r.ReviewText,
	}
	if r.Screening != nil {
		s := ScreeningToResponse(r.Screening)
		resp.Screening = &s
	}
	return resp
}

func ReservationsToResponse(reservations []*entity.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, ReservationToResponse(r))
	}
	return out
}

func CartToResponse(c *entity.Cart) CartResponse {
	return CartResponse{
		UserID:     c.UserID.String(),
		Items:      ReservationsToResponse(c.Items),
		ItemCount:  len(c.Items),
		TotalPrice: c.TotalPrice,
	}
}
