package catalog

import (
	"context"
)

// Fetcher retrieves one page of a movie list.
//
// For ModeCategory, param is a Category key such as "popular". For
// ModeSearch, param is the search query.
type Fetcher interface {
	FetchList(ctx context.Context, mode Mode, param string, page int) (*ListResult, error)
}
