package entity

const (
	HallA   = "Hall A"
	HallB   = "Hall B"
	HallC   = "Hall C"
	HallVIP = "VIP Hall"
)

// StandardHalls are the halls a non-VIP screening is placed in.
var StandardHalls = []string{HallA, HallB, HallC}

type Screening struct {
	Base
	MovieID        int64  `db:"movie_id"`
	Movie          *Movie `db:"movie"`
	Date           string `db:"show_date"` // YYYY-MM-DD
	Time           string `db:"show_time"` // HH:MM
	Hall           string `db:"hall"`
	Price          int    `db:"price"`
	AvailableSeats int    `db:"available_seats"`
}

// ScreeningFilter narrows a screening listing. Nil fields are unconstrained.
type ScreeningFilter struct {
	Date     *string
	MovieID  *int64
	MinPrice *int
	MaxPrice *int
}

// Match reports whether s satisfies every set constraint.
func (f ScreeningFilter) Match(s *Screening) bool {
	if f.Date != nil && s.Date != *f.Date {
		return false
	}
	if f.MovieID != nil && s.MovieID != *f.MovieID {
		return false
	}
	if f.MinPrice != nil && s.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && s.Price > *f.MaxPrice {
		return false
	}
	return true
}

// Clone returns a copy that can be handed out without exposing store internals.
func (s *Screening) Clone() *Screening {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (s *Screening) SoldOut() bool {
	return s.AvailableSeats <= 0
}
