package tools

import (
	"context"

	"qametrics-assistant/pkg/qase"
)

type testRunsTool struct {
	deps Deps
}

func (t *testRunsTool) Name() string { return NameGetTestRuns }

func (t *testRunsTool) Description() string {
	return "Lista execuções de teste do projeto com estatísticas de resultado (aprovados, reprovados, bloqueados)."
}

func (t *testRunsTool) Parameters() map[string]interface{} {
	return schemaObject(map[string]interface{}{
		"project_code": projectCodeProperty(),
		"limit":        limitProperty(),
		"status": map[string]interface{}{
			"type":        "string",
			"description": "Filtra por status da execução: active, complete ou abort.",
		},
	})
}

func (t *testRunsTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	code, err := t.deps.projectCode(args)
	if err != nil {
		return nil, err
	}
	opt := qase.ListRunsOptions{
		Limit:  clampLimit(intArg(args, "limit", DefaultLimit)),
		Status: stringArg(args, "status"),
	}

	list, err := cachedFetch(ctx, t.deps, "runs:"+code, opt, func() (qase.RunList, error) {
		return t.deps.API.ListRuns(ctx, code, opt)
	})
	if err != nil {
		return nil, err
	}

	runs := make([]map[string]interface{}, 0, len(list.Entities))
	for _, r := range list.Entities {
		runs = append(runs, map[string]interface{}{
			"id":         r.ID,
			"title":      r.Title,
			"status":     r.Status,
			"start_time": r.StartTime,
			"end_time":   r.EndTime,
			"passed":     r.Stats.Passed,
			"failed":     r.Stats.Failed,
			"blocked":    r.Stats.Blocked,
			"skipped":    r.Stats.Skipped,
			"untested":   r.Stats.Untested,
			"total":      r.Stats.Total,
		})
	}
	return map[string]interface{}{
		"project_code": code,
		"total":        list.Total,
		"runs":         runs,
	}, nil
}
