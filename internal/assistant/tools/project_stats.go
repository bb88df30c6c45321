package tools

import (
	"context"

	"qametrics-assistant/pkg/qase"
)

type projectStatsTool struct {
	deps Deps
}

func (t *projectStatsTool) Name() string { return NameGetProjectStats }

func (t *projectStatsTool) Description() string {
	return "Retorna um resumo do projeto: contagem de casos, suítes, execuções (totais e ativas) e defeitos (totais e abertos)."
}

func (t *projectStatsTool) Parameters() map[string]interface{} {
	return schemaObject(map[string]interface{}{
		"project_code": projectCodeProperty(),
	})
}

func (t *projectStatsTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	code, err := t.deps.projectCode(args)
	if err != nil {
		return nil, err
	}

	project, err := cachedFetch(ctx, t.deps, "project:"+code, nil, func() (qase.Project, error) {
		return t.deps.API.GetProject(ctx, code)
	})
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"code":         project.Code,
		"title":        project.Title,
		"cases":        project.Counts.Cases,
		"suites":       project.Counts.Suites,
		"milestones":   project.Counts.Milestones,
		"runs_total":   project.Counts.Runs.Total,
		"runs_active":  project.Counts.Runs.Active,
		"defects":      project.Counts.Defects.Total,
		"defects_open": project.Counts.Defects.Open,
	}, nil
}
