package movie

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
	// Offset shifts the printed index, for output that continues a previous page
	Offset int
}

// ConsoleFormatter provides console output formatting for movies
type ConsoleFormatter struct {
	heading lipgloss.Style
	dim     lipgloss.Style
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{
		heading: lipgloss.NewStyle().Bold(true),
		dim:     lipgloss.NewStyle().Faint(true),
	}
}

// FormatMovieList formats a list of movies for console display
func (f *ConsoleFormatter) FormatMovieList(movies []Movie, options FormatOptions) string {
	if len(movies) == 0 {
		return "No movies found"
	}

	var sb strings.Builder

	header := "Movie"
	if len(movies) != 1 {
		header += "s"
	}
	sb.WriteString(f.heading.Render(fmt.Sprintf("%s (%d):", header, len(movies))))
	sb.WriteString("\n\n")

	for i, m := range movies {
		isLast := i == len(movies)-1
		prefix := "├"
		if isLast {
			prefix = "╰"
		}

		fmt.Fprintf(&sb, "%s── %3d. %s (%d) ★ %s\n",
			prefix, options.Offset+i+1, m.Title, m.Year, FormatRating(m.Rating))

		if options.ShowDetails {
			indent := "│      "
			if isLast {
				indent = "       "
			}
			fmt.Fprintf(&sb, "%s%s\n", indent, f.dim.Render(fmt.Sprintf("id %d · %s · %s", m.ID, m.Genre, m.Director)))
		}
	}

	return sb.String()
}

// FormatMovieDetail formats a single movie with its favorite status
func (f *ConsoleFormatter) FormatMovieDetail(m Movie, favorite bool) string {
	var sb strings.Builder

	title := fmt.Sprintf("%s (%d)", m.Title, m.Year)
	if favorite {
		title += " ♥"
	}
	sb.WriteString(f.heading.Render(title))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "  ID:       %d\n", m.ID)
	fmt.Fprintf(&sb, "  Rating:   %s\n", FormatRating(m.Rating))
	fmt.Fprintf(&sb, "  Genre:    %s\n", m.Genre)
	fmt.Fprintf(&sb, "  Director: %s\n", m.Director)
	if m.PosterURL != "" {
		fmt.Fprintf(&sb, "  Poster:   %s\n", m.PosterURL)
	}
	if m.TMDBID != 0 {
		fmt.Fprintf(&sb, "  TMDB:     %d\n", m.TMDBID)
	}
	sb.WriteString("\n")
	sb.WriteString(m.Synopsis)
	sb.WriteString("\n")

	return sb.String()
}

// FormatFilters formats the persisted filter settings
func (f *ConsoleFormatter) FormatFilters(fs FilterSettings) string {
	var sb strings.Builder

	status := "inactive"
	if fs.HasActiveFilters {
		status = "active"
	}
	sb.WriteString(f.heading.Render("Filters (" + status + "):"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  Genre:      %s\n", orDash(fs.Genre))
	fmt.Fprintf(&sb, "  Min rating: %s\n", orDash(fs.MinRating))
	fmt.Fprintf(&sb, "  Year:       %s\n", orDash(fs.Year))

	return sb.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
