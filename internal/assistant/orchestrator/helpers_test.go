package orchestrator_test

import (
	"context"
	"errors"
	"time"

	"qametrics-assistant/internal/assistant"
	"qametrics-assistant/internal/assistant/classifier"
	"qametrics-assistant/internal/assistant/orchestrator"
	"qametrics-assistant/pkg/cache"
	"qametrics-assistant/pkg/llmprovider"
	"qametrics-assistant/pkg/qase"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// stubClassifier returns a fixed classification.
type stubClassifier struct {
	out   classifier.Output
	panic bool
}

func (s *stubClassifier) Classify(ctx context.Context, modelAPIKey, message, priorProjectCode string) classifier.Output {
	if s.panic {
		panic("classifier blew up")
	}
	return s.out
}

// fakeAPI counts upstream calls and serves scripted data.
type fakeAPI struct {
	projects qase.ProjectList
	cases    qase.CaseList
	err      error
	calls    int
}

func (f *fakeAPI) ListProjects(ctx context.Context, opt qase.ListProjectsOptions) (qase.ProjectList, error) {
	f.calls++
	return f.projects, f.err
}

func (f *fakeAPI) GetProject(ctx context.Context, code string) (qase.Project, error) {
	f.calls++
	return qase.Project{Code: code}, f.err
}

func (f *fakeAPI) ListRuns(ctx context.Context, code string, opt qase.ListRunsOptions) (qase.RunList, error) {
	f.calls++
	return qase.RunList{}, f.err
}

func (f *fakeAPI) ListDefects(ctx context.Context, code string, opt qase.ListDefectsOptions) (qase.DefectList, error) {
	f.calls++
	return qase.DefectList{}, f.err
}

func (f *fakeAPI) ListCases(ctx context.Context, code string, opt qase.ListCasesOptions) (qase.CaseList, error) {
	f.calls++
	return f.cases, f.err
}

// sequenceProvider replays scripted responses in order, repeating the
// last one once the script runs out.
type sequenceProvider struct {
	responses []*llmprovider.Response
	err       error
	calls     int
}

func textResponse(text string) *llmprovider.Response {
	return &llmprovider.Response{
		Content: llmprovider.Message{Role: "assistant", Parts: []llmprovider.Part{{Text: text}}},
		Usage:   &llmprovider.Usage{},
	}
}

func toolCallResponse(name string, args map[string]interface{}) *llmprovider.Response {
	return &llmprovider.Response{
		Content: llmprovider.Message{
			Role:  "assistant",
			Parts: []llmprovider.Part{{FunctionCall: &llmprovider.FunctionCall{Name: name, Args: args}}},
		},
		Usage: &llmprovider.Usage{},
	}
}

func (p *sequenceProvider) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return nil, errors.New("sequence exhausted")
	}
	idx := p.calls
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	p.calls++
	return p.responses[idx], nil
}

func (p *sequenceProvider) Name() string  { return "sequence" }
func (p *sequenceProvider) Model() string { return "sequence-model" }

func twoProjects() qase.ProjectList {
	return qase.ProjectList{
		Total: 2,
		Entities: []qase.Project{
			{Code: "DEMO", Title: "Demo", CasesCount: 42},
			{Code: "WEB", Title: "Web App", CasesCount: 7},
		},
	}
}

func oneProject() qase.ProjectList {
	return qase.ProjectList{
		Total:    1,
		Entities: []qase.Project{{Code: "DEMO", Title: "Demo", CasesCount: 42}},
	}
}

func qaseCases(total int) qase.CaseList {
	return qase.CaseList{Total: total}
}

func newUseCase(api qase.API, provider llmprovider.Provider, cls classifier.Classifier) assistant.UseCase {
	factory := func(modelAPIKey string) (*llmprovider.Manager, error) {
		return llmprovider.NewManager([]llmprovider.Provider{provider},
			&llmprovider.Config{RetryAttempts: 1}, &mockLogger{}), nil
	}
	metrics := func(providerToken string) qase.API { return api }
	return orchestrator.New(cls, factory, metrics,
		cache.NewLRUStore(64, time.Minute), orchestrator.Config{}, &mockLogger{})
}

func testConfig() assistant.Config {
	return assistant.Config{
		ModelAPIKey:   "model-key",
		ProviderToken: "provider-token",
		UserID:        "u1",
	}
}
