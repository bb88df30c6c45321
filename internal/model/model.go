package model

// Environment is the runtime environment name.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// Project is a QA project snapshot sourced from the metrics provider.
// Staleness is bounded by the cache TTL under which it was stored.
type Project struct {
	Code       string `json:"code"`
	Title      string `json:"title"`
	CasesCount int    `json:"cases_count,omitempty"`
}
