package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category identifies one of the fixed movie list partitions
type Category string

const (
	// NowPlaying lists movies currently in theaters
	NowPlaying Category = "now_playing"
	// Popular lists movies by current popularity
	Popular Category = "popular"
	// TopRated lists movies by rating
	TopRated Category = "top_rated"
	// Upcoming lists movies not yet released
	Upcoming Category = "upcoming"
)

// Categories holds every category in display order.
var Categories = []Category{NowPlaying, Popular, TopRated, Upcoming}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case NowPlaying, Popular, TopRated, Upcoming:
		return true
	default:
		return false
	}
}

// DisplayName returns the human readable name of the category
func (c Category) DisplayName() string {
	switch c {
	case NowPlaying:
		return "Now Playing"
	case Popular:
		return "Popular"
	case TopRated:
		return "Top Rated"
	case Upcoming:
		return "Upcoming"
	default:
		return "Unknown"
	}
}

// String returns the API key of the category
func (c Category) String() string {
	return string(c)
}

// ParseCategory accepts API keys ("top_rated") as well as the dashed and
// spaced forms a user is likely to type ("top-rated", "Top Rated").
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)

	c := Category(key)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Mode selects which endpoint family a list request uses
type Mode int

const (
	// ModeCategory fetches a category list
	ModeCategory Mode = iota
	// ModeSearch fetches search results for a query
	ModeSearch
)

// String returns the string representation of a Mode
func (m Mode) String() string {
	switch m {
	case ModeCategory:
		return "category"
	case ModeSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Movie is a single catalog entry. Fields the client does not interpret
// are preserved in Extra.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	BackdropPath     *string `json:"backdrop_path"`
	PosterPath       *string `json:"poster_path"`
	Overview         string  `json:"overview,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Popularity       float64 `json:"popularity,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	VoteCount        int     `json:"vote_count,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Adult            bool    `json:"adult,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// movieFields mirrors Movie without its JSON methods
type movieFields Movie

var knownMovieKeys = map[string]struct{}{
	"id": {}, "title": {}, "backdrop_path": {}, "poster_path": {},
	"overview": {}, "release_date": {}, "original_language": {},
	"popularity": {}, "vote_average": {}, "vote_count": {},
	"genre_ids": {}, "adult": {},
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra
func (m *Movie) UnmarshalJSON(data []byte) error {
	var fields movieFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range knownMovieKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		fields.Extra = raw
	}

	*m = Movie(fields)
	return nil
}

// MarshalJSON encodes the known fields together with Extra
func (m Movie) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(movieFields(m))
	if err != nil || len(m.Extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range m.Extra {
		if _, known := knownMovieKeys[key]; !known {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// Year returns the release year, or 0 when the release date is unknown
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	var year int
	if _, err := fmt.Sscanf(m.ReleaseDate[:4], "%d", &year); err != nil {
		return 0
	}
	return year
}

// BackdropURL returns the full backdrop image URL, or "" without a backdrop
func (m Movie) BackdropURL(imageBase string) string {
	if m.BackdropPath == nil {
		return ""
	}
	return ImageURL(imageBase, *m.BackdropPath)
}

// PosterURL returns the full poster image URL, or "" without a poster
func (m Movie) PosterURL(imageBase string) string {
	if m.PosterPath == nil {
		return ""
	}
	return ImageURL(imageBase, *m.PosterPath)
}

// ImageURL joins the image CDN prefix with a relative image path
func ImageURL(imageBase, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(imageBase, "/") + "/" + strings.TrimLeft(path, "/")
}

// ListResult is one normalized page of a movie list
type ListResult struct {
	Results      []Movie `json:"results"`
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// listEnvelope is the raw list response; pointers detect missing fields
type listEnvelope struct {
	Page         int      `json:"page"`
	Results      *[]Movie `json:"results"`
	TotalPages   *int     `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// decodeList validates and normalizes a list response body
func decodeList(body []byte, requestedPage, maxPages int) (*ListResult, error) {
	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &MalformedResponseError{Reason: "invalid JSON", Err: err}
	}
	if env.Results == nil {
		return nil, &MalformedResponseError{Reason: "missing results"}
	}
	if env.TotalPages == nil {
		return nil, &MalformedResponseError{Reason: "missing total_pages"}
	}

	result := &ListResult{
		Results:      *env.Results,
		Page:         env.Page,
		TotalPages:   *env.TotalPages,
		TotalResults: env.TotalResults,
	}
	if result.Page < 1 {
		result.Page = requestedPage
	}
	if maxPages > 0 && result.TotalPages > maxPages {
		result.TotalPages = maxPages
	}

	return result, nil
}
