package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultImageBaseURL is the TMDB image CDN prefix for original size images
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/original"
	// DefaultMaxPages is the deepest page TMDB will serve
	DefaultMaxPages = 500
)

// Client represents a movie catalog API client
type Client struct {
	baseURL     string
	apiKey      string
	bearerToken string
	language    string
	maxPages    int
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewClient creates a new catalog client
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	client := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		maxPages: DefaultMaxPages,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.baseURL == "" {
		return nil, fmt.Errorf("%w: catalog URL is required", ErrInvalidConfig)
	}
	if client.apiKey == "" && client.bearerToken == "" {
		return nil, fmt.Errorf("%w: catalog API key is required", ErrInvalidConfig)
	}

	return client, nil
}

// FetchList fetches one page of a category list or of search results
func (c *Client) FetchList(ctx context.Context, mode Mode, param string, page int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}

	endpoint, params, err := route(mode, param)
	if err != nil {
		return nil, err
	}
	params.Set("page", strconv.Itoa(page))

	body, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	result, err := decodeList(body, page, c.maxPages)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("mode", mode.String()).
		Str("param", param).
		Int("page", result.Page).
		Int("total_pages", result.TotalPages).
		Int("count", len(result.Results)).
		Msg("Fetched movie list")

	return result, nil
}

// Ping verifies the catalog is reachable and accepts the credentials
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, "/configuration", nil)
	return err
}

// route maps a list request to its endpoint and base query parameters
func route(mode Mode, param string) (string, url.Values, error) {
	params := url.Values{}

	switch mode {
	case ModeCategory:
		category := Category(param)
		if !category.Valid() {
			return "", nil, fmt.Errorf("%w: %q", ErrUnknownCategory, param)
		}
		return "/movie/" + category.String(), params, nil
	case ModeSearch:
		query := strings.TrimSpace(param)
		if query == "" {
			return "", nil, ErrEmptyQuery
		}
		params.Set("query", query)
		return "/search/movie", params, nil
	default:
		return "", nil, fmt.Errorf("unsupported list mode: %d", mode)
	}
}

// doRequest performs an authenticated GET and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	if c.bearerToken == "" {
		params.Set("api_key", c.apiKey)
	}
	if c.language != "" {
		params.Set("language", c.language)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newNetworkError(endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}
