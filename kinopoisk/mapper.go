package kinopoisk

import (
	"strings"

	"github.com/s0up4200/kinoshelf/movie"
)

const (
	professionDirector   = "режиссеры"
	enProfessionDirector = "director"
)

// toMovie converts a catalog DTO into a movie, filling placeholders for missing fields
func (d movieDTO) toMovie() movie.Movie {
	m := movie.Movie{
		ID:       d.ID,
		Title:    movie.UnknownTitle,
		Genre:    movie.UnknownGenre,
		Director: d.directors(),
		Synopsis: movie.NoDescription,
	}

	switch {
	case d.Name != nil:
		m.Title = *d.Name
	case d.AlternativeName != nil:
		m.Title = *d.AlternativeName
	}

	if d.Year != nil {
		m.Year = *d.Year
	}
	if d.Rating != nil && d.Rating.KP != nil {
		m.Rating = *d.Rating.KP
	}
	if d.Genres != nil {
		names := make([]string, 0, len(d.Genres))
		for _, g := range d.Genres {
			names = append(names, deref(g.Name))
		}
		m.Genre = strings.Join(names, ", ")
	}
	if d.Description != nil {
		m.Synopsis = *d.Description
	}
	if d.Poster != nil {
		m.PosterURL = deref(d.Poster.URL)
	}
	if d.ExternalID != nil && d.ExternalID.TMDB != nil {
		m.TMDBID = *d.ExternalID.TMDB
	}

	return m
}

func (d movieDTO) directors() string {
	var names []string
	for _, p := range d.Persons {
		if p.Name == nil {
			continue
		}
		if deref(p.Profession) == professionDirector || deref(p.EnProfession) == enProfessionDirector {
			names = append(names, *p.Name)
		}
	}

	joined := strings.Join(names, ", ")
	if strings.TrimSpace(joined) == "" {
		return movie.UnknownDirector
	}
	return joined
}

func (r movieResponse) toPage() *MoviePage {
	page := &MoviePage{
		Movies: make([]movie.Movie, 0, len(r.Docs)),
		Total:  r.Total,
		Limit:  r.Limit,
		Page:   r.Page,
		Pages:  r.Pages,
	}
	for _, d := range r.Docs {
		page.Movies = append(page.Movies, d.toMovie())
	}
	return page
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
