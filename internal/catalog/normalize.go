package catalog

import (
	"strings"

	"movie-reservation/internal/data/entity"
)

// ref covers the id/name shapes the catalog uses for genres, actors and directors.
type ref struct {
	ID         int64  `json:"id"`
	GenreID    int64  `json:"genreId"`
	ActorID    int64  `json:"actorId"`
	DirectorID int64  `json:"directorId"`
	Name       string `json:"name"`
}

func (r ref) id() int64 {
	for _, v := range []int64{r.ID, r.GenreID, r.ActorID, r.DirectorID} {
		if v != 0 {
			return v
		}
	}
	return 0
}

type rawMovie struct {
	MovieID     int64  `json:"movieId"`
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ShortURL    string `json:"shortUrl"`
	CoverURL    string `json:"coverUrl"`
	Poster      string `json:"poster"`
	Runtime     int    `json:"runtime"`
	RunTime     int    `json:"runTime"`
	StartDate   string `json:"startDate"`
	ReleaseDate string `json:"releaseDate"`

	Director  *ref  `json:"director"`
	Directors []ref `json:"directors"`

	MovieActors []struct {
		Actor ref `json:"actor"`
	} `json:"movieActors"`
	Actors []ref `json:"actors"`

	MovieGenres []struct {
		Genre ref `json:"genre"`
	} `json:"movieGenres"`
	Genres []ref `json:"genres"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func coverURL(raw string) string {
	if strings.HasPrefix(raw, "http") {
		return raw
	}
	return entity.PlaceholderCover
}

// normalize maps a catalog record to entity.Movie. Genres are deduplicated by id.
func normalize(m rawMovie) *entity.Movie {
	id := m.MovieID
	if id == 0 {
		id = m.ID
	}
	runtime := m.Runtime
	if runtime == 0 {
		runtime = m.RunTime
	}

	movie := &entity.Movie{
		ID:          id,
		Title:       m.Title,
		Description: m.Description,
		ShortURL:    m.ShortURL,
		ReleaseDate: firstNonEmpty(m.StartDate, m.ReleaseDate),
		CoverURL:    coverURL(firstNonEmpty(m.CoverURL, m.Poster)),
		Runtime:     runtime,
		Genres:      []entity.Genre{},
		Actors:      []entity.Actor{},
		Directors:   []entity.Director{},
	}

	seen := make(map[int64]bool)
	addGenre := func(r ref) {
		gid := r.id()
		if seen[gid] {
			return
		}
		seen[gid] = true
		movie.Genres = append(movie.Genres, entity.Genre{ID: gid, Name: r.Name})
	}
	for _, mg := range m.MovieGenres {
		addGenre(mg.Genre)
	}
	for _, g := range m.Genres {
		addGenre(g)
	}

	for _, ma := range m.MovieActors {
		movie.Actors = append(movie.Actors, entity.Actor{ID: ma.Actor.id(), Name: ma.Actor.Name})
	}
	for _, a := range m.Actors {
		movie.Actors = append(movie.Actors, entity.Actor{ID: a.id(), Name: a.Name})
	}

	if m.Director != nil {
		movie.Directors = append(movie.Directors, entity.Director{ID: m.Director.id(), Name: m.Director.Name})
	}
	for _, d := range m.Directors {
		if m.Director != nil && d.id() == m.Director.id() {
			continue
		}
		movie.Directors = append(movie.Directors, entity.Director{ID: d.id(), Name: d.Name})
	}

	return movie
}
