package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/starr/radarr"

	"github.com/s0up4200/cinescope/catalog"
)

// mockRadarrAPI implements RadarrAPI for testing
type mockRadarrAPI struct {
	movies  []*radarr.Movie
	err     error
	pingErr error

	getMovieCalls int
}

func (m *mockRadarrAPI) GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error) {
	m.getMovieCalls++
	return m.movies, m.err
}

func (m *mockRadarrAPI) Ping() error {
	return m.pingErr
}

func TestClient_OwnedIDs_Caching(t *testing.T) {
	mockAPI := &mockRadarrAPI{
		movies: []*radarr.Movie{
			{ID: 1, Title: "Dune", TmdbID: 438631},
			{ID: 2, Title: "Arrival", TmdbID: 329865},
			{ID: 3, Title: "Unmatched", TmdbID: 0},
			nil,
		},
	}

	now := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	client := NewClientWithAPI(mockAPI, zerolog.Nop())
	client.now = func() time.Time { return now }
	ctx := context.Background()

	owned, err := client.OwnedIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, owned, 2)
	assert.Contains(t, owned, int64(438631))
	assert.Equal(t, 1, mockAPI.getMovieCalls)

	_, err = client.OwnedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, mockAPI.getMovieCalls, "served from cache")

	now = now.Add(DefaultCacheTTL)
	_, err = client.OwnedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, mockAPI.getMovieCalls, "cache expired")

	client.Invalidate()
	_, err = client.OwnedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, mockAPI.getMovieCalls)
}

func TestClient_Annotate(t *testing.T) {
	mockAPI := &mockRadarrAPI{
		movies: []*radarr.Movie{{ID: 1, TmdbID: 438631}},
	}
	client := NewClientWithAPI(mockAPI, zerolog.Nop())

	marks, err := client.Annotate(context.Background(), []catalog.Movie{
		{ID: 438631, Title: "Dune"},
		{ID: 693134, Title: "Dune: Part Two"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{438631: true}, marks)
}

func TestClient_Errors(t *testing.T) {
	boom := errors.New("connection refused")
	client := NewClientWithAPI(&mockRadarrAPI{err: boom, pingErr: boom}, zerolog.Nop())

	_, err := client.Annotate(context.Background(), []catalog.Movie{{ID: 1}})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "failed to get movies")

	err = client.Ping()
	assert.ErrorIs(t, err, boom)
}
