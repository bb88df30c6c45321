package tools

import (
	"context"

	"qametrics-assistant/pkg/qase"
)

type defectsTool struct {
	deps Deps
}

func (t *defectsTool) Name() string { return NameGetDefects }

func (t *defectsTool) Description() string {
	return "Lista defeitos do projeto com título, status e severidade."
}

func (t *defectsTool) Parameters() map[string]interface{} {
	return schemaObject(map[string]interface{}{
		"project_code": projectCodeProperty(),
		"limit":        limitProperty(),
		"status": map[string]interface{}{
			"type":        "string",
			"description": "Filtra por status do defeito: open, resolved ou in_progress.",
		},
	})
}

func (t *defectsTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	code, err := t.deps.projectCode(args)
	if err != nil {
		return nil, err
	}
	opt := qase.ListDefectsOptions{
		Limit:  clampLimit(intArg(args, "limit", DefaultLimit)),
		Status: stringArg(args, "status"),
	}

	list, err := cachedFetch(ctx, t.deps, "defects:"+code, opt, func() (qase.DefectList, error) {
		return t.deps.API.ListDefects(ctx, code, opt)
	})
	if err != nil {
		return nil, err
	}

	defects := make([]map[string]interface{}, 0, len(list.Entities))
	for _, d := range list.Entities {
		defects = append(defects, map[string]interface{}{
			"id":       d.ID,
			"title":    d.Title,
			"status":   d.Status,
			"severity": d.Severity,
			"created":  d.Created,
		})
	}
	return map[string]interface{}{
		"project_code": code,
		"total":        list.Total,
		"defects":      defects,
	}, nil
}
