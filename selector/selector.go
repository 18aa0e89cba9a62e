// Package selector derives display values from state snapshots. Selectors
// are pure: they never modify the snapshot they are given.
package selector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/s0up4200/cinescope/catalog"
	"github.com/s0up4200/cinescope/filter"
	"github.com/s0up4200/cinescope/state"
)

// DefaultSlideshowSize is how many backdrops the promotional slideshow shows
const DefaultSlideshowSize = 4

// RandomSample returns up to n distinct elements of list in random order.
// The input is never modified. A nil rng uses the global source.
func RandomSample[T any](list []T, n int, rng *rand.Rand) []T {
	if n <= 0 || len(list) == 0 {
		return []T{}
	}

	picked := slices.Clone(list)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	return picked[:min(n, len(picked))]
}

// Slide is one entry of the promotional slideshow
type Slide struct {
	MovieID     int64
	Title       string
	Overview    string
	BackdropURL string
}

// Slideshow picks n random movies from the current list. Movies without a
// backdrop get an empty BackdropURL rather than being skipped.
func Slideshow(s state.AppState, n int, imageBase string, rng *rand.Rand) ([]Slide, error) {
	if n > 0 && len(s.List) == 0 {
		return nil, &InsufficientDataError{Requested: n, Available: 0}
	}

	picked := RandomSample(s.List, n, rng)
	slides := make([]Slide, 0, len(picked))
	for _, movie := range picked {
		slides = append(slides, Slide{
			MovieID:     movie.ID,
			Title:       movie.Title,
			Overview:    movie.Overview,
			BackdropURL: movie.BackdropURL(imageBase),
		})
	}
	return slides, nil
}

// CurrentMode returns the endpoint family and parameter the view is keyed by
func CurrentMode(s state.AppState) (catalog.Mode, string) {
	return s.Query()
}

// Pagination describes the pager position
type Pagination struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// Label renders the pager as "Page 2 of 10"
func (p Pagination) Label() string {
	if p.TotalPages == 0 {
		return fmt.Sprintf("Page %d", p.Page)
	}
	return fmt.Sprintf("Page %d of %d", p.Page, p.TotalPages)
}

// PageInfo derives pager state from a snapshot
func PageInfo(s state.AppState) Pagination {
	return Pagination{
		Page:       s.Page,
		TotalPages: s.TotalPages,
		HasPrev:    s.TotalPages > 0 && s.Page > 1,
		HasNext:    s.Page < s.TotalPages,
	}
}

// Heading returns the title shown above the list
func Heading(s state.AppState) string {
	if s.Searching() {
		return fmt.Sprintf("Search: %s", strings.TrimSpace(s.SearchQuery))
	}
	return s.Category.DisplayName()
}

// Filter returns the movies of the current list matching f, in list order.
// A nil filter returns the whole list.
func Filter(ctx context.Context, s state.AppState, f filter.Filter) ([]catalog.Movie, error) {
	if f == nil {
		return slices.Clone(s.List), nil
	}
	return filter.NewConcurrentEvaluator().Select(ctx, f, s.List)
}
