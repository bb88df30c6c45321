package qase

import "context"

// API is the subset of the Qase REST API consumed by the assistant.
type API interface {
	ListProjects(ctx context.Context, opt ListProjectsOptions) (ProjectList, error)
	GetProject(ctx context.Context, code string) (Project, error)
	ListRuns(ctx context.Context, code string, opt ListRunsOptions) (RunList, error)
	ListDefects(ctx context.Context, code string, opt ListDefectsOptions) (DefectList, error)
	ListCases(ctx context.Context, code string, opt ListCasesOptions) (CaseList, error)
}

// Ensure Client implements API.
var _ API = (*Client)(nil)
