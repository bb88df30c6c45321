package qase

import "fmt"

// AuthError indicates the provider rejected the API token.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("qase: authentication failed (status %d)", e.Status)
}

// RateLimitError indicates the provider throttled the request.
type RateLimitError struct {
	RetryAfter string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("qase: rate limited, retry after %s", e.RetryAfter)
	}
	return "qase: rate limited"
}

// APIError is any other non-2xx provider response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("qase: API error %d: %s", e.Status, e.Body)
}
