package request

type CartItemRequest struct {
	ScreeningID string `json:"screening_id" validate:"required,uuid"`
}

type ReserveRequest struct {
	ScreeningID string `json:"screening_id" validate:"required,uuid"`
}

type RateReservationRequest struct {
	Rating     float64 `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText *string `json:"review_text,omitempty" validate:"omitempty,max=1000"`
}
