package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseSimple
	MovieID  int64     `db:"movie_id"`
	UserID   uuid.UUID `db:"user_id"`
	UserName string    `db:"user_name"`
	Rating   float64   `db:"rating"` // 1-5
	Comment  string    `db:"comment"`
}
