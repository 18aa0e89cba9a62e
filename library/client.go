// Package library tells which catalog movies are already in the user's
// Radarr library, matched by TMDB id.
package library

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"

	"github.com/s0up4200/cinescope/catalog"
)

// DefaultCacheTTL is how long the owned id set is reused before Radarr is asked again
const DefaultCacheTTL = 5 * time.Minute

// RadarrAPI is the subset of the starr Radarr client used here
type RadarrAPI interface {
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)
	Ping() error
}

// Client wraps the starr Radarr client with a cached view of owned movies
type Client struct {
	api      RadarrAPI
	logger   zerolog.Logger
	cacheTTL time.Duration
	now      func() time.Time

	mu        sync.Mutex
	owned     map[int64]struct{}
	fetchedAt time.Time
}

// NewClient creates a Radarr client and checks the connection
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	config := starr.New(apiKey, url, 30*time.Second)
	radarrClient := radarr.New(config)

	if err := radarrClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	return NewClientWithAPI(radarrClient, logger), nil
}

// NewClientWithAPI creates a client around an existing Radarr API implementation
func NewClientWithAPI(api RadarrAPI, logger zerolog.Logger) *Client {
	return &Client{
		api:      api,
		logger:   logger,
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
	}
}

// OwnedIDs returns the TMDB ids of every movie in the library
func (c *Client) OwnedIDs(ctx context.Context) (map[int64]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.owned != nil && c.now().Sub(c.fetchedAt) < c.cacheTTL {
		return c.owned, nil
	}

	movies, err := c.api.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	owned := make(map[int64]struct{}, len(movies))
	for _, movie := range movies {
		if movie != nil && movie.TmdbID > 0 {
			owned[movie.TmdbID] = struct{}{}
		}
	}

	c.owned = owned
	c.fetchedAt = c.now()
	c.logger.Debug().Msgf("Retrieved %d movies from Radarr", len(movies))

	return owned, nil
}

// Annotate reports which of movies are in the library, keyed by catalog id
func (c *Client) Annotate(ctx context.Context, movies []catalog.Movie) (map[int64]bool, error) {
	owned, err := c.OwnedIDs(ctx)
	if err != nil {
		return nil, err
	}

	marks := make(map[int64]bool, len(movies))
	for _, movie := range movies {
		if _, ok := owned[movie.ID]; ok {
			marks[movie.ID] = true
		}
	}
	return marks, nil
}

// Invalidate drops the cached id set
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.owned = nil
}

// Ping checks that Radarr is reachable
func (c *Client) Ping() error {
	if err := c.api.Ping(); err != nil {
		return fmt.Errorf("failed to connect to Radarr: %w", err)
	}
	return nil
}
