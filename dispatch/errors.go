package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/s0up4200/cinescope/catalog"
)

// UserMessage turns a fetch failure into the text shown in the error banner.
// The catalog's own status message wins when it sent one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *catalog.APIError
	var netErr *catalog.NetworkError
	var malformed *catalog.MalformedResponseError

	switch {
	case errors.Is(err, context.Canceled):
		return "Request was canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "The movie catalog took too long to respond"
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		switch {
		case apiErr.IsUnauthorized():
			return "The movie catalog rejected the API key"
		case apiErr.IsNotFound():
			return "The requested list does not exist"
		default:
			return fmt.Sprintf("The movie catalog returned status %d", apiErr.StatusCode)
		}
	case errors.As(err, &netErr):
		return "Could not reach the movie catalog"
	case errors.As(err, &malformed):
		return "The movie catalog sent an unexpected response"
	default:
		return err.Error()
	}
}
