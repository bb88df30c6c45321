package qase

// envelope is the common Qase API response wrapper.
type envelope struct {
	Status bool   `json:"status"`
	Error  string `json:"errorMessage"`
}

// Project is a Qase project entity.
type Project struct {
	Code       string        `json:"code"`
	Title      string        `json:"title"`
	CasesCount int           `json:"cases_count"`
	Counts     ProjectCounts `json:"counts"`
}

// ProjectCounts aggregates per-project entity counters.
type ProjectCounts struct {
	Cases      int          `json:"cases"`
	Suites     int          `json:"suites"`
	Milestones int          `json:"milestones"`
	Runs       RunCounts    `json:"runs"`
	Defects    DefectCounts `json:"defects"`
}

// RunCounts splits run totals by lifecycle.
type RunCounts struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// DefectCounts splits defect totals by state.
type DefectCounts struct {
	Total int `json:"total"`
	Open  int `json:"open"`
}

// ProjectList is a paginated project listing.
type ProjectList struct {
	Total    int       `json:"total"`
	Entities []Project `json:"entities"`
}

// Run is a test run with its aggregated result stats.
type Run struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Status    string   `json:"status_text"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Stats     RunStats `json:"stats"`
}

// RunStats is the per-run result breakdown.
type RunStats struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Blocked  int `json:"blocked"`
	Skipped  int `json:"skipped"`
	Untested int `json:"untested"`
}

// RunList is a paginated run listing.
type RunList struct {
	Total    int   `json:"total"`
	Entities []Run `json:"entities"`
}

// Defect is a reported defect.
type Defect struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Severity int    `json:"severity"`
	Created  string `json:"created_at"`
}

// DefectList is a paginated defect listing.
type DefectList struct {
	Total    int      `json:"total"`
	Entities []Defect `json:"entities"`
}

// CaseList is a paginated test case listing; only the counters are
// consumed by the assistant tools.
type CaseList struct {
	Total    int        `json:"total"`
	Entities []TestCase `json:"entities"`
}

// TestCase is a single test case summary.
type TestCase struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Priority int    `json:"priority"`
	Severity int    `json:"severity"`
	SuiteID  int    `json:"suite_id"`
}

// ListProjectsOptions are the paging options for ListProjects.
type ListProjectsOptions struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListRunsOptions filter run listings.
type ListRunsOptions struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Status string `json:"status"`
}

// ListDefectsOptions filter defect listings.
type ListDefectsOptions struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Status string `json:"status"`
}

// ListCasesOptions filter case listings.
type ListCasesOptions struct {
	Limit   int `json:"limit"`
	Offset  int `json:"offset"`
	SuiteID int `json:"suite_id"`
}
