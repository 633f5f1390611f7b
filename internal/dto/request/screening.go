package request

type ScreeningRequest struct {
	MovieID        int64  `json:"movie_id" validate:"required,min=1"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string `json:"time" validate:"required,datetime=15:04"`
	Hall           string `json:"hall" validate:"required,max=50"`
	Price          int    `json:"price" validate:"gte=0"`
	AvailableSeats int    `json:"available_seats" validate:"gte=0"`
}
