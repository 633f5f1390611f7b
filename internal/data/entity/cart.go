package entity

import "github.com/google/uuid"

// Cart holds provisional reservations that have not been checked out.
// TotalPrice is derived from the referenced screenings, never stored.
type Cart struct {
	UserID     uuid.UUID
	Items      []*Reservation
	TotalPrice int
}

// Contains reports whether a line item for the screening already exists.
func (c *Cart) Contains(screeningID uuid.UUID) bool {
	for _, it := range c.Items {
		if it.ScreeningID == screeningID {
			return true
		}
	}
	return false
}
