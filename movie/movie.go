// Package movie holds the catalog value types shared by the client, the
// preference stores and the state machines.
package movie

import (
	"fmt"
	"strings"
)

// Placeholders used when the catalog omits a field
const (
	UnknownTitle    = "Unknown title"
	UnknownGenre    = "Unknown genre"
	UnknownDirector = "Unknown director"
	NoDescription   = "No description"
)

// ShareSubject is the subject line handed to a Sharer
const ShareSubject = "Check out this movie!"

// Movie is a single catalog entry. Identity is ID.
type Movie struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Rating    float64 `json:"rating"`
	Genre     string  `json:"genre"`
	Director  string  `json:"director"`
	Synopsis  string  `json:"synopsis"`
	PosterURL string  `json:"posterUrl"`
	TMDBID    int64   `json:"tmdbId,omitempty"`
}

// ShareText formats the plain-text summary handed to a Sharer
func (m Movie) ShareText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Movie: %s (%d)\n", m.Title, m.Year)
	fmt.Fprintf(&sb, "Rating: %s\n", FormatRating(m.Rating))
	fmt.Fprintf(&sb, "Genre: %s\n", m.Genre)
	fmt.Fprintf(&sb, "Director: %s\n", m.Director)
	fmt.Fprintf(&sb, "Description: %s\n", m.Synopsis)
	sb.WriteString("Share this amazing movie!")
	return sb.String()
}

// HasGenre reports whether name appears in the comma separated genre list
func (m Movie) HasGenre(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for g := range strings.SplitSeq(m.Genre, ",") {
		if strings.EqualFold(strings.TrimSpace(g), name) {
			return true
		}
	}
	return false
}

// FormatRating renders a rating with one decimal place
func FormatRating(r float64) string {
	return fmt.Sprintf("%.1f", r)
}

// FilterSettings is the persisted catalog filter. Blank fields mean "not specified".
type FilterSettings struct {
	Genre            string `json:"genre"`
	MinRating        string `json:"minRating"`
	Year             string `json:"year"`
	HasActiveFilters bool   `json:"hasActiveFilters"`
}

// NewFilterSettings builds settings with HasActiveFilters derived from the fields
func NewFilterSettings(genre, minRating, year string) FilterSettings {
	return FilterSettings{
		Genre:            genre,
		MinRating:        minRating,
		Year:             year,
		HasActiveFilters: AnyActive(genre, minRating, year),
	}
}

// AnyActive reports whether any of the values is non-blank
func AnyActive(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
