package entity

// PlaceholderCover is used whenever the catalog has no usable cover image.
const PlaceholderCover = "assets/images/movie-placeholder.jpg"

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Actor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Director struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie is the normalized catalog record. It is never mutated after fetch.
type Movie struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ShortURL    string     `json:"short_url,omitempty"`
	ReleaseDate string     `json:"release_date"`
	CoverURL    string     `json:"cover_url"`
	Runtime     int        `json:"runtime"`
	Genres      []Genre    `json:"genres"`
	Actors      []Actor    `json:"actors"`
	Directors   []Director `json:"directors"`
}

// HasGenre reports whether the movie is tagged with the given genre id.
func (m *Movie) HasGenre(genreID int64) bool {
	for _, g := range m.Genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}
