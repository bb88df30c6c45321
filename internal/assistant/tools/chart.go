package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// renderChartTool builds a QuickChart image URL from data already
// gathered by the other tools. It is pure: no upstream calls, no cache.
type renderChartTool struct{}

const quickChartBaseURL = "https://quickchart.io/chart"

var chartTypes = map[string]bool{
	"bar":  true,
	"line": true,
	"pie":  true,
}

func (t *renderChartTool) Name() string { return NameRenderChart }

func (t *renderChartTool) Description() string {
	return "Gera a URL de um gráfico (bar, line ou pie) a partir de rótulos e valores já obtidos pelas outras ferramentas."
}

func (t *renderChartTool) Parameters() map[string]interface{} {
	return schemaObject(map[string]interface{}{
		"chart_type": map[string]interface{}{
			"type":        "string",
			"description": "Tipo do gráfico: bar, line ou pie.",
		},
		"title": map[string]interface{}{
			"type":        "string",
			"description": "Título do gráfico.",
		},
		"labels": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Rótulos das categorias, na mesma ordem dos valores.",
		},
		"values": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "number"},
			"description": "Valores numéricos, um por rótulo.",
		},
	}, "chart_type", "labels", "values")
}

func (t *renderChartTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	chartType := stringArg(args, "chart_type")
	if !chartTypes[chartType] {
		return nil, fmt.Errorf("chart_type must be bar, line or pie, got %q", chartType)
	}

	labels, err := stringSliceArg(args, "labels")
	if err != nil {
		return nil, err
	}
	values, err := numberSliceArg(args, "values")
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 || len(labels) != len(values) {
		return nil, errors.New("labels and values must be non-empty and the same length")
	}

	spec := map[string]interface{}{
		"type": chartType,
		"data": map[string]interface{}{
			"labels": labels,
			"datasets": []map[string]interface{}{
				{"label": stringArg(args, "title"), "data": values},
			},
		},
	}
	if title := stringArg(args, "title"); title != "" {
		spec["options"] = map[string]interface{}{
			"title": map[string]interface{}{"display": true, "text": title},
		}
	}

	raw, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal chart spec: %w", err)
	}

	return map[string]interface{}{
		"chart_url": quickChartBaseURL + "?c=" + url.QueryEscape(string(raw)),
	}, nil
}

func stringSliceArg(args map[string]interface{}, name string) ([]string, error) {
	raw, ok := args[name].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array of strings", name)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s must contain only strings", name)
		}
		out = append(out, s)
	}
	return out, nil
}

func numberSliceArg(args map[string]interface{}, name string) ([]float64, error) {
	raw, ok := args[name].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array of numbers", name)
	}
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		n, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%s must contain only numbers", name)
		}
		out = append(out, n)
	}
	return out, nil
}
