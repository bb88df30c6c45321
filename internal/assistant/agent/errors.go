package agent

import (
	"context"
	"errors"
	"strings"

	"qametrics-assistant/pkg/qase"
)

// UserFacingMessage translates an internal failure into the fixed
// fallback string shown to the user. Internals never leak: the original
// error is kept separately for logging.
func UserFacingMessage(err error) string {
	if err == nil {
		return ""
	}

	var authErr *qase.AuthError
	if errors.As(err, &authErr) {
		return MsgAuthError
	}

	var rateErr *qase.RateLimitError
	if errors.As(err, &rateErr) {
		return MsgRateLimited
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout
	}

	// Providers wrap transport failures as opaque strings; classify by
	// the usual markers.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "authentication") || strings.Contains(msg, "invalid api key"):
		return MsgAuthError
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests"):
		return MsgRateLimited
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") || strings.Contains(msg, "deadline exceeded"):
		return MsgTimeout
	default:
		return MsgGenericError
	}
}
