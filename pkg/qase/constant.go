package qase

import "time"

const (
	DefaultBaseURL = "https://api.qase.io/v1"
	DefaultTimeout = 30 * time.Second

	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond

	// Client-side throttle; Qase enforces roughly this per token.
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 10

	DefaultPageLimit = 10
	MaxPageLimit     = 100
)
