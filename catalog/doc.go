// Package catalog provides a client for a TMDB-compatible movie catalog API.
//
// The catalog serves paginated movie lists keyed either by one of four fixed
// categories (now playing, popular, top rated, upcoming) or by a free-text
// search query. This package only issues requests and normalizes responses;
// it holds no view state and never retries.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := catalog.NewClient(
//		"https://api.themoviedb.org/3",
//		"your-api-key",
//		logger,
//		catalog.WithTimeout(15*time.Second),
//		catalog.WithLanguage("en-US"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	list, err := client.FetchList(ctx, catalog.ModeCategory, string(catalog.Popular), 1)
//
// # Error Handling
//
// Failed requests return one of three error types:
//
//   - NetworkError: the request never produced a response
//   - APIError: the server answered with a non-2xx status
//   - MalformedResponseError: the body did not match the list contract
//
// Use errors.As to classify them:
//
//	var apiErr *catalog.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
//		// Handle bad credentials
//	}
package catalog
