package state

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/s0up4200/cinescope/catalog"
)

// ErrUnknownTransition is returned for transitions the reducer does not handle
var ErrUnknownTransition = errors.New("unknown transition")

// Transition is a named state change. The set of transitions is closed:
// only types declared in this package implement it.
type Transition interface {
	// Kind names the transition for logging
	Kind() string
	transition()
}

// ListLoaded commits a completed fetch
type ListLoaded struct {
	List       []catalog.Movie
	Page       int
	TotalPages int
	Mode       catalog.Mode
	Param      string
}

// CategoryChanged switches the active category, resetting paging and search
type CategoryChanged struct {
	Category catalog.Category
}

// SearchQueryChanged echoes the search input and resets paging
type SearchQueryChanged struct {
	Query string
}

// ErrorOccurred records a failed fetch
type ErrorOccurred struct {
	Error ErrorInfo
}

// ErrorCleared drops the recorded error
type ErrorCleared struct{}

func (ListLoaded) Kind() string         { return "list_loaded" }
func (CategoryChanged) Kind() string    { return "category_changed" }
func (SearchQueryChanged) Kind() string { return "search_query_changed" }
func (ErrorOccurred) Kind() string      { return "error_occurred" }
func (ErrorCleared) Kind() string       { return "error_cleared" }

func (ListLoaded) transition()         {}
func (CategoryChanged) transition()    {}
func (SearchQueryChanged) transition() {}
func (ErrorOccurred) transition()      {}
func (ErrorCleared) transition()       {}

// reduce returns the state that results from applying t to s. It never
// modifies s; the returned state's Version is left for the caller to set.
func reduce(s AppState, t Transition, now func() time.Time) (AppState, error) {
	switch t := t.(type) {
	case ListLoaded:
		// The list always belongs to the requested page. A total that
		// disagrees with it is raised so Page stays within [1, TotalPages].
		page := max(t.Page, 1)
		s.List = slices.Clone(t.List)
		s.Page = page
		s.TotalPages = max(t.TotalPages, page)
		s.Error = nil
		s.Loaded = true
		if t.Mode == catalog.ModeCategory {
			if category := catalog.Category(t.Param); category.Valid() {
				s.Category = category
			}
		}
		return s, nil

	case CategoryChanged:
		if !t.Category.Valid() {
			return s, fmt.Errorf("%w: %q", catalog.ErrUnknownCategory, t.Category)
		}
		s.Category = t.Category
		s.Page = 1
		s.TotalPages = 0
		s.SearchQuery = ""
		return s, nil

	case SearchQueryChanged:
		// A new query starts a new view on page 1; paging waits for its first load.
		s.SearchQuery = t.Query
		s.Page = 1
		s.TotalPages = 0
		return s, nil

	case ErrorOccurred:
		errInfo := t.Error
		if errInfo.OccurredAt.IsZero() {
			errInfo.OccurredAt = now()
		}
		s.Error = &errInfo
		return s, nil

	case ErrorCleared:
		s.Error = nil
		return s, nil

	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownTransition, t)
	}
}
