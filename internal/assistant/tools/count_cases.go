package tools

import (
	"context"

	"qametrics-assistant/pkg/qase"
)

type countCasesTool struct {
	deps Deps
}

func (t *countCasesTool) Name() string { return NameCountTestCases }

func (t *countCasesTool) Description() string {
	return "Conta os casos de teste do projeto, opcionalmente dentro de uma suíte."
}

func (t *countCasesTool) Parameters() map[string]interface{} {
	return schemaObject(map[string]interface{}{
		"project_code": projectCodeProperty(),
		"suite_id": map[string]interface{}{
			"type":        "integer",
			"description": "Restringe a contagem a uma suíte específica.",
		},
	})
}

func (t *countCasesTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	code, err := t.deps.projectCode(args)
	if err != nil {
		return nil, err
	}
	// Limit 1 keeps the payload minimal; only the total counter is used.
	opt := qase.ListCasesOptions{
		Limit:   1,
		SuiteID: intArg(args, "suite_id", 0),
	}

	list, err := cachedFetch(ctx, t.deps, "cases:"+code, opt, func() (qase.CaseList, error) {
		return t.deps.API.ListCases(ctx, code, opt)
	})
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"project_code": code,
		"total":        list.Total,
	}
	if opt.SuiteID > 0 {
		result["suite_id"] = opt.SuiteID
	}
	return result, nil
}
