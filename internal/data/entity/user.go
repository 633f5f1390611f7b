package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	FirstName      string   `db:"first_name"`
	LastName       string   `db:"last_name"`
	Username       string   `db:"username"`
	Email          string   `db:"email"`
	PasswordHash   string   `db:"password"`
	Phone          *string  `db:"phone"`
	Address        *string  `db:"address"`
	FavoriteGenres []Genre  `db:"favorite_genres"`
	Role           UserRole `db:"role"`
	IsActive       bool     `db:"is_active"`
}

// FullName is the display name attached to reviews.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}
