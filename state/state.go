package state

import (
	"slices"
	"strings"
	"time"

	"github.com/s0up4200/cinescope/catalog"
)

// ErrorInfo describes the last failed fetch in user-displayable form
type ErrorInfo struct {
	Message    string
	OccurredAt time.Time
}

// AppState is a snapshot of the browsing state
type AppState struct {
	// List holds the movies of the most recently committed fetch, in API rank order
	List        []catalog.Movie
	Category    catalog.Category
	Page        int
	TotalPages  int
	SearchQuery string
	Error       *ErrorInfo

	// Loaded is set once any list has been committed
	Loaded bool
	// Version counts committed transitions
	Version uint64
}

// Initial returns the state before the first fetch
func Initial(category catalog.Category) AppState {
	return AppState{
		Category: category,
		Page:     1,
	}
}

// Searching reports whether a non-blank search query is active
func (s AppState) Searching() bool {
	return strings.TrimSpace(s.SearchQuery) != ""
}

// Query returns the endpoint mode and parameter the current view is keyed by.
// An active search takes precedence over the category.
func (s AppState) Query() (catalog.Mode, string) {
	if s.Searching() {
		return catalog.ModeSearch, strings.TrimSpace(s.SearchQuery)
	}
	return catalog.ModeCategory, s.Category.String()
}

// clone returns a copy that shares no mutable memory with s
func (s AppState) clone() AppState {
	s.List = slices.Clone(s.List)
	if s.Error != nil {
		errInfo := *s.Error
		s.Error = &errInfo
	}
	return s
}
