package request

type GenreItem struct {
	ID   int64  `json:"id" validate:"required,min=1"`
	Name string `json:"name" validate:"required,max=100"`
}

type RegisterRequest struct {
	FirstName      string      `json:"first_name" validate:"required,max=100"`
	LastName       string      `json:"last_name" validate:"required,max=100"`
	Username       string      `json:"username" validate:"required,min=3,max=50"`
	Email          string      `json:"email" validate:"required,email"`
	Password       string      `json:"password" validate:"required,min=6"`
	Phone          *string     `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	Address        *string     `json:"address,omitempty" validate:"omitempty,max=255"`
	FavoriteGenres []GenreItem `json:"favorite_genres,omitempty" validate:"omitempty,dive"`
}

// LoginRequest accepts either the username or the email as Username.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type UpdateProfileRequest struct {
	FirstName      *string     `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName       *string     `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email          *string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string     `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	Address        *string     `json:"address,omitempty" validate:"omitempty,max=255"`
	Password       *string     `json:"password,omitempty" validate:"omitempty,min=6"`
	FavoriteGenres []GenreItem `json:"favorite_genres,omitempty" validate:"omitempty,dive"`
}
