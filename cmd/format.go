package cmd

import (
	"fmt"
	"strings"

	"github.com/s0up4200/cinescope/catalog"
	"github.com/s0up4200/cinescope/selector"
	"github.com/s0up4200/cinescope/state"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
	ImageBase   string
	// Owned marks catalog ids already in the Radarr library
	Owned map[int64]bool
}

// ConsoleFormatter renders browsing state as a tree for the terminal
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatState formats the heading, pager and movies of a snapshot.
// movies is passed separately so callers can show a filtered list.
func (f *ConsoleFormatter) FormatState(s state.AppState, movies []catalog.Movie, options FormatOptions) string {
	var sb strings.Builder

	pager := selector.PageInfo(s)
	fmt.Fprintf(&sb, "\n%s · %s\n", selector.Heading(s), pager.Label())

	if s.Error != nil {
		fmt.Fprintf(&sb, "⚠ %s\n", s.Error.Message)
	}

	if len(movies) == 0 {
		if s.Loaded {
			sb.WriteString("No movies found\n")
		}
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(f.FormatMovieList(movies, options))

	var nav []string
	if pager.HasPrev {
		nav = append(nav, "prev")
	}
	if pager.HasNext {
		nav = append(nav, "next")
	}
	if len(nav) > 0 {
		fmt.Fprintf(&sb, "More: %s\n", strings.Join(nav, " | "))
	}

	return sb.String()
}

// FormatMovieList formats a list of movies for console display
func (f *ConsoleFormatter) FormatMovieList(movies []catalog.Movie, options FormatOptions) string {
	var sb strings.Builder

	for i, movie := range movies {
		isLast := i == len(movies)-1
		f.formatMovie(&sb, movie, isLast, options)

		if !isLast && options.ShowDetails {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatOverview formats the first entries of every category
func (f *ConsoleFormatter) FormatOverview(overview catalog.Overview, perCategory int) string {
	var sb strings.Builder

	for _, category := range catalog.Categories {
		result := overview[category]
		if result == nil {
			continue
		}

		fmt.Fprintf(&sb, "\n%s (%d movies)\n", category.DisplayName(), result.TotalResults)

		movies := result.Results[:min(perCategory, len(result.Results))]
		sb.WriteString(f.FormatMovieList(movies, FormatOptions{}))
	}

	return sb.String()
}

// FormatSlides formats the promotional slideshow picks
func (f *ConsoleFormatter) FormatSlides(heading string, slides []selector.Slide) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nSlideshow · %s (%d):\n\n", heading, len(slides))

	for i, slide := range slides {
		isLast := i == len(slides)-1
		prefix, indent := branch(isLast)

		fmt.Fprintf(&sb, "%s── %s\n", prefix, slide.Title)
		if slide.BackdropURL != "" {
			fmt.Fprintf(&sb, "%s%s\n", indent, slide.BackdropURL)
		} else {
			fmt.Fprintf(&sb, "%s(no backdrop)\n", indent)
		}
		if slide.Overview != "" {
			fmt.Fprintf(&sb, "%s%s\n", indent, truncate(slide.Overview, 100))
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// formatMovie formats a single movie entry
func (f *ConsoleFormatter) formatMovie(sb *strings.Builder, movie catalog.Movie, isLast bool, options FormatOptions) {
	prefix, indent := branch(isLast)

	title := movie.Title
	if year := movie.Year(); year > 0 {
		title = fmt.Sprintf("%s (%d)", title, year)
	}
	if options.Owned[movie.ID] {
		title += " [owned]"
	}

	fmt.Fprintf(sb, "%s── %s", prefix, title)
	if movie.VoteCount > 0 {
		fmt.Fprintf(sb, "  ★ %.1f", movie.VoteAverage)
	}
	sb.WriteString("\n")

	if !options.ShowDetails {
		return
	}

	var parts []string
	if movie.ReleaseDate != "" {
		parts = append(parts, fmt.Sprintf("Released: %s", movie.ReleaseDate))
	}
	if movie.VoteCount > 0 {
		parts = append(parts, fmt.Sprintf("Votes: %d", movie.VoteCount))
	}
	if movie.OriginalLanguage != "" {
		parts = append(parts, fmt.Sprintf("Language: %s", movie.OriginalLanguage))
	}
	if len(parts) > 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(parts, " | "))
	}

	if movie.Overview != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, truncate(movie.Overview, 120))
	}

	if url := movie.PosterURL(options.ImageBase); url != "" {
		fmt.Fprintf(sb, "%sPoster: %s\n", indent, url)
	}
}

func branch(isLast bool) (prefix, indent string) {
	if isLast {
		return "╰", "    "
	}
	return "├", "│   "
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
