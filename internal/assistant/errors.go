package assistant

import "errors"

// Domain-specific errors for the assistant package.
var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrMissingUser  = errors.New("user id is required")
	ErrMissingToken = errors.New("provider token is required")
)
