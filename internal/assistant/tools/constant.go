package tools

import "time"

// Log prefixes
const (
	LogPrefixTools = "internal.assistant.tools"
)

// Tool names
const (
	NameListProjects    = "list_projects"
	NameGetProjectStats = "get_project_stats"
	NameGetTestRuns     = "get_test_runs"
	NameGetDefects      = "get_defects"
	NameCountTestCases  = "count_test_cases"
	NameRenderChart     = "render_chart"
)

// Configuration
const (
	// Metrics snapshots tolerate short staleness; identical questions
	// inside this window answer from cache without an upstream call.
	DefaultCacheTTL = 5 * time.Minute

	DefaultLimit = 10
	MaxLimit     = 100
)
