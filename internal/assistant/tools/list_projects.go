package tools

import (
	"context"

	"qametrics-assistant/pkg/qase"
)

type listProjectsTool struct {
	deps Deps
}

func (t *listProjectsTool) Name() string { return NameListProjects }

func (t *listProjectsTool) Description() string {
	return "Lista os projetos de teste do usuário, com código, título e número de casos de teste."
}

func (t *listProjectsTool) Parameters() map[string]interface{} {
	return schemaObject(map[string]interface{}{
		"limit": limitProperty(),
	})
}

func (t *listProjectsTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	opt := qase.ListProjectsOptions{
		Limit: clampLimit(intArg(args, "limit", DefaultLimit)),
	}

	list, err := cachedFetch(ctx, t.deps, "projects", opt, func() (qase.ProjectList, error) {
		return t.deps.API.ListProjects(ctx, opt)
	})
	if err != nil {
		return nil, err
	}

	projects := make([]map[string]interface{}, 0, len(list.Entities))
	for _, p := range list.Entities {
		projects = append(projects, map[string]interface{}{
			"code":        p.Code,
			"title":       p.Title,
			"cases_count": p.CasesCount,
		})
	}
	return map[string]interface{}{
		"total":    list.Total,
		"projects": projects,
	}, nil
}
