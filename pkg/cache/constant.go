package cache

import "time"

const (
	DefaultCapacity = 1024
	DefaultMaxTTL   = 30 * time.Minute
)
