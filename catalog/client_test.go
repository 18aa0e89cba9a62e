package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func movieListBody(page, totalPages, count int) map[string]any {
	results := make([]map[string]any, 0, count)
	for i := 1; i <= count; i++ {
		results = append(results, map[string]any{
			"id":            i,
			"title":         fmt.Sprintf("Movie %d", i),
			"backdrop_path": fmt.Sprintf("/backdrop%d.jpg", i),
			"poster_path":   nil,
			"vote_average":  7.5,
			"video":         false,
		})
	}
	return map[string]any{
		"page":          page,
		"results":       results,
		"total_pages":   totalPages,
		"total_results": totalPages * count,
	}
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		opts    []Option
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "http://localhost:8080/3/",
			apiKey:  "test-key",
		},
		{
			name:    "bearer token instead of API key",
			baseURL: "http://localhost:8080/3",
			opts:    []Option{WithBearerToken("token")},
		},
		{
			name:    "missing URL",
			apiKey:  "test-key",
			wantErr: true,
			errMsg:  "URL is required",
		},
		{
			name:    "missing credentials",
			baseURL: "http://localhost:8080/3",
			wantErr: true,
			errMsg:  "API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.apiKey, logger, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "http://localhost:8080/3", client.baseURL)
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("http://localhost", "key", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("http://localhost", "key", logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, client.httpClient)
	})

	t.Run("with max pages", func(t *testing.T) {
		client, err := NewClient("http://localhost", "key", logger, WithMaxPages(20))
		require.NoError(t, err)
		assert.Equal(t, 20, client.maxPages)
	})
}

func TestFetchListCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		json.NewEncoder(w).Encode(movieListBody(2, 10, 20))
	}, WithLanguage("en-US"))

	result, err := client.FetchList(context.Background(), ModeCategory, string(Popular), 2)
	require.NoError(t, err)

	assert.Len(t, result.Results, 20)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 10, result.TotalPages)

	first := result.Results[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "Movie 1", first.Title)
	require.NotNil(t, first.BackdropPath)
	assert.Equal(t, "/backdrop1.jpg", *first.BackdropPath)
	assert.Nil(t, first.PosterPath)
	assert.Contains(t, first.Extra, "video")
}

func TestFetchListSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "star wars", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		json.NewEncoder(w).Encode(movieListBody(1, 3, 5))
	})

	result, err := client.FetchList(context.Background(), ModeSearch, "  star wars ", 0)
	require.NoError(t, err)
	assert.Len(t, result.Results, 5)
	assert.Equal(t, 3, result.TotalPages)
}

func TestFetchListBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer read-token", r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.Query().Get("api_key"))
		json.NewEncoder(w).Encode(movieListBody(1, 1, 1))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "", zerolog.Nop(), WithBearerToken("read-token"))
	require.NoError(t, err)

	_, err = client.FetchList(context.Background(), ModeCategory, string(TopRated), 1)
	require.NoError(t, err)
}

func TestFetchListCapsTotalPages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(movieListBody(1, 40000, 1))
	})

	result, err := client.FetchList(context.Background(), ModeCategory, string(Upcoming), 1)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPages, result.TotalPages)
}

func TestFetchListInvalidRequests(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := client.FetchList(context.Background(), ModeCategory, "trending", 1)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = client.FetchList(context.Background(), ModeSearch, "   ", 1)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	assert.Zero(t, calls.Load(), "invalid requests must not reach the server")
}

func TestFetchListAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key.","success":false}`))
	})

	_, err := client.FetchList(context.Background(), ModeCategory, string(Popular), 1)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid API key: You must be granted a valid key.", apiErr.Message)
	assert.True(t, apiErr.IsUnauthorized())
	assert.False(t, apiErr.Temporary())
}

func TestFetchListServerErrorWithoutBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchList(context.Background(), ModeCategory, string(Popular), 2)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
	assert.Contains(t, apiErr.Error(), "status 500: Internal Server Error")
	assert.True(t, apiErr.Temporary())
}

func TestFetchListMalformedResponse(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{name: "not JSON", body: `<html>oops</html>`, reason: "invalid JSON"},
		{name: "missing results", body: `{"page":1,"total_pages":3}`, reason: "missing results"},
		{name: "null results", body: `{"page":1,"results":null,"total_pages":3}`, reason: "missing results"},
		{name: "missing total pages", body: `{"page":1,"results":[]}`, reason: "missing total_pages"},
		{name: "wrong result type", body: `{"page":1,"results":{},"total_pages":3}`, reason: "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.FetchList(context.Background(), ModeCategory, string(Popular), 1)

			var malformed *MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.reason, malformed.Reason)
		})
	}
}

func TestFetchListNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client, err := NewClient(serverURL, "secret-key", zerolog.Nop())
	require.NoError(t, err)

	_, err = client.FetchList(context.Background(), ModeCategory, string(Popular), 1)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "/movie/popular", netErr.Endpoint)
	assert.True(t, netErr.Temporary())
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestFetchListContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(movieListBody(1, 1, 1))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchList(ctx, ModeCategory, string(Popular), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/configuration", r.URL.Path)
		w.Write([]byte(`{"images":{}}`))
	})

	require.NoError(t, client.Ping(context.Background()))
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"popular", Popular, false},
		{"now_playing", NowPlaying, false},
		{"top-rated", TopRated, false},
		{"Top Rated", TopRated, false},
		{" UPCOMING ", Upcoming, false},
		{"trending", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMovieJSONPreservesExtraFields(t *testing.T) {
	input := `{"id":42,"title":"Arrival","backdrop_path":null,"poster_path":"/p.jpg","video":false,"original_title":"Arrival"}`

	var movie Movie
	require.NoError(t, json.Unmarshal([]byte(input), &movie))
	assert.Nil(t, movie.BackdropPath)
	assert.Len(t, movie.Extra, 2)

	encoded, err := json.Marshal(movie)
	require.NoError(t, err)

	var decoded Movie
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, movie, decoded)
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "https://img.example/t/p/w780/abc.jpg", ImageURL("https://img.example/t/p/w780/", "/abc.jpg"))
	assert.Equal(t, "https://img.example/abc.jpg", ImageURL("https://img.example", "abc.jpg"))
	assert.Empty(t, ImageURL("https://img.example", ""))

	path := "/b.jpg"
	movie := Movie{BackdropPath: &path}
	assert.Equal(t, "https://img.example/b.jpg", movie.BackdropURL("https://img.example"))
	assert.Empty(t, movie.PosterURL("https://img.example"))
}

func TestMovieYear(t *testing.T) {
	assert.Equal(t, 2016, Movie{ReleaseDate: "2016-11-10"}.Year())
	assert.Zero(t, Movie{}.Year())
	assert.Zero(t, Movie{ReleaseDate: "soon"}.Year())
}
