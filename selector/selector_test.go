package selector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cinescope/catalog"
	"github.com/s0up4200/cinescope/filter"
	"github.com/s0up4200/cinescope/state"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func moviesWithBackdrops(n int) []catalog.Movie {
	list := make([]catalog.Movie, n)
	for i := range list {
		path := fmt.Sprintf("/backdrop%d.jpg", i)
		list[i] = catalog.Movie{ID: int64(i + 1), Title: fmt.Sprintf("Movie %d", i+1), BackdropPath: &path}
	}
	return list
}

func TestRandomSamplePermutation(t *testing.T) {
	list := []int{1, 2, 3, 4}

	for range 50 {
		got := RandomSample(list, 4, nil)
		require.Len(t, got, 4)
		assert.ElementsMatch(t, list, got)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, list, "source is untouched")
}

func TestRandomSampleDistinct(t *testing.T) {
	list := make([]int, 20)
	for i := range list {
		list[i] = i
	}

	got := RandomSample(list, 4, seeded())
	require.Len(t, got, 4)

	seen := make(map[int]bool)
	for _, v := range got {
		assert.False(t, seen[v], "duplicate %d", v)
		seen[v] = true
		assert.Contains(t, list, v)
	}

	assert.Equal(t, got, RandomSample(list, 4, seeded()), "same seed, same sample")
}

func TestRandomSampleBounds(t *testing.T) {
	assert.Empty(t, RandomSample([]int{1, 2}, 0, nil))
	assert.Empty(t, RandomSample([]int{1, 2}, -1, nil))
	assert.Empty(t, RandomSample([]int(nil), 3, nil))
	assert.ElementsMatch(t, []int{1, 2}, RandomSample([]int{1, 2}, 5, nil))
}

func TestRandomSampleCoversAllPositions(t *testing.T) {
	list := []string{"a", "b", "c", "d"}
	rng := seeded()

	firsts := make(map[string]bool)
	for range 200 {
		firsts[RandomSample(list, 1, rng)[0]] = true
	}
	assert.Len(t, firsts, 4)
}

func TestSlideshow(t *testing.T) {
	s := state.AppState{List: moviesWithBackdrops(20)}

	slides, err := Slideshow(s, DefaultSlideshowSize, "https://image.tmdb.org/t/p/original", seeded())
	require.NoError(t, err)
	require.Len(t, slides, 4)

	ids := make([]int64, 0, len(slides))
	for _, slide := range slides {
		ids = append(ids, slide.MovieID)
		assert.Equal(t, fmt.Sprintf("https://image.tmdb.org/t/p/original/backdrop%d.jpg", slide.MovieID-1), slide.BackdropURL)
	}
	slices.Sort(ids)
	assert.Len(t, slices.Compact(ids), 4)
}

func TestSlideshowMissingBackdrop(t *testing.T) {
	s := state.AppState{List: []catalog.Movie{{ID: 1, Title: "No Art"}}}

	slides, err := Slideshow(s, 4, "https://img", nil)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.Empty(t, slides[0].BackdropURL)
}

func TestSlideshowInsufficientData(t *testing.T) {
	_, err := Slideshow(state.AppState{}, 4, "https://img", nil)

	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 4, insufficient.Requested)
	assert.Zero(t, insufficient.Available)

	slides, err := Slideshow(state.AppState{}, 0, "https://img", nil)
	require.NoError(t, err)
	assert.Empty(t, slides)
}

func TestCurrentModeAndHeading(t *testing.T) {
	s := state.Initial(catalog.TopRated)

	mode, param := CurrentMode(s)
	assert.Equal(t, catalog.ModeCategory, mode)
	assert.Equal(t, "top_rated", param)
	assert.Equal(t, "Top Rated", Heading(s))

	s.SearchQuery = "  blade runner "
	mode, param = CurrentMode(s)
	assert.Equal(t, catalog.ModeSearch, mode)
	assert.Equal(t, "blade runner", param)
	assert.Equal(t, "Search: blade runner", Heading(s))

	s.SearchQuery = "   "
	mode, _ = CurrentMode(s)
	assert.Equal(t, catalog.ModeCategory, mode)
}

func TestPageInfo(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		total     int
		wantPrev  bool
		wantNext  bool
		wantLabel string
	}{
		{name: "not loaded", page: 1, total: 0, wantLabel: "Page 1"},
		{name: "first page", page: 1, total: 3, wantNext: true, wantLabel: "Page 1 of 3"},
		{name: "middle", page: 2, total: 3, wantPrev: true, wantNext: true, wantLabel: "Page 2 of 3"},
		{name: "last page", page: 3, total: 3, wantPrev: true, wantLabel: "Page 3 of 3"},
		{name: "single page", page: 1, total: 1, wantLabel: "Page 1 of 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := PageInfo(state.AppState{Page: tt.page, TotalPages: tt.total})
			assert.Equal(t, tt.wantPrev, info.HasPrev)
			assert.Equal(t, tt.wantNext, info.HasNext)
			assert.Equal(t, tt.wantLabel, info.Label())
		})
	}
}

func TestFilter(t *testing.T) {
	list := moviesWithBackdrops(6)
	for i := range list {
		list[i].VoteAverage = float64(i + 4)
	}
	s := state.AppState{List: list}

	f, err := filter.Compile(`VoteAverage >= 7`)
	require.NoError(t, err)

	got, err := Filter(context.Background(), s, f)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{4, 5, 6}, []int64{got[0].ID, got[1].ID, got[2].ID})

	all, err := Filter(context.Background(), s, nil)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
