package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"qametrics-assistant/internal/assistant/agent"
	"qametrics-assistant/pkg/cache"
	pkgLog "qametrics-assistant/pkg/log"
	"qametrics-assistant/pkg/qase"
)

// Deps carries everything the metrics tools need. One Deps instance is
// scoped to a single user: cache keys are derived from UserID so users
// never see each other's snapshots.
type Deps struct {
	API         qase.API
	Cache       cache.Store
	UserID      string
	ProjectCode string // default scope; tools accept an explicit code too
	CacheTTL    time.Duration
	Logger      pkgLog.Logger
}

func (d Deps) cacheTTL() time.Duration {
	if d.CacheTTL > 0 {
		return d.CacheTTL
	}
	return DefaultCacheTTL
}

// NewRegistry builds the tool registry for one user scope.
func NewRegistry(deps Deps) *agent.Registry {
	r := agent.NewRegistry()
	r.Register(&listProjectsTool{deps})
	r.Register(&projectStatsTool{deps})
	r.Register(&testRunsTool{deps})
	r.Register(&defectsTool{deps})
	r.Register(&countCasesTool{deps})
	r.Register(&renderChartTool{})
	return r
}

// cachedFetch answers from cache when a fresh snapshot exists,
// otherwise calls fetch and stores the result. out must be a pointer.
func cachedFetch[T any](ctx context.Context, d Deps, resource string, filters any, fetch func() (T, error)) (T, error) {
	key := cache.Key(d.UserID, resource, filters)

	var cached T
	if d.Cache != nil && cache.GetJSON(ctx, d.Cache, key, &cached) {
		d.Logger.Debugf(ctx, "%s: cache hit for %s", LogPrefixTools, resource)
		return cached, nil
	}

	fresh, err := fetch()
	if err != nil {
		return fresh, err
	}

	if d.Cache != nil {
		if err := cache.SetJSON(ctx, d.Cache, key, fresh, d.cacheTTL()); err != nil {
			d.Logger.Warnf(ctx, "%s: cache write failed for %s: %v", LogPrefixTools, resource, err)
		}
	}
	return fresh, nil
}

// Argument helpers. Tool arguments arrive from JSON decoding, so
// numbers are float64 and anything may be missing or mistyped.

func stringArg(args map[string]interface{}, name string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[name].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func intArg(args map[string]interface{}, name string, fallback int) int {
	if args == nil {
		return fallback
	}
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// projectCode resolves the project argument, falling back to the
// bound scope. Codes are uppercased to match Qase's convention.
func (d Deps) projectCode(args map[string]interface{}) (string, error) {
	code := stringArg(args, "project_code")
	if code == "" {
		code = d.ProjectCode
	}
	if code == "" {
		return "", errors.New("project_code is required: no project is selected")
	}
	return strings.ToUpper(code), nil
}

func schemaObject(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func projectCodeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Código do projeto (ex.: DEMO). Opcional quando um projeto já está selecionado.",
	}
}

func limitProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": fmt.Sprintf("Quantidade máxima de itens (padrão %d, máximo %d).", DefaultLimit, MaxLimit),
	}
}
