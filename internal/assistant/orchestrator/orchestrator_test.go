package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"qametrics-assistant/internal/assistant/agent"
	"qametrics-assistant/internal/assistant/classifier"
	"qametrics-assistant/internal/assistant/orchestrator"
	"qametrics-assistant/pkg/llmprovider"
)

func TestRunGeneral(t *testing.T) {
	ctx := context.Background()

	api := &fakeAPI{projects: twoProjects()}
	uc := newUseCase(api, &sequenceProvider{responses: []*llmprovider.Response{
		textResponse("Olá! Como posso ajudar?"),
	}}, &stubClassifier{out: classifier.Output{Intent: classifier.IntentGeneral}})

	out := uc.Run(ctx, testConfig(), "oi, tudo bem?")
	if out.Response != "Olá! Como posso ajudar?" {
		t.Errorf("unexpected response: %q", out.Response)
	}
	if out.NeedsProjectSelection {
		t.Error("general chat must not ask for project selection")
	}
	if len(out.Projects) != 0 {
		t.Errorf("general chat must not carry a project list, got %v", out.Projects)
	}
	if api.calls != 0 {
		t.Errorf("general chat must not touch the metrics API, got %d calls", api.calls)
	}
	if out.Err != "" {
		t.Errorf("unexpected error: %s", out.Err)
	}
}

func TestRunAutoBindSingleProject(t *testing.T) {
	ctx := context.Background()

	t.Run("Auto Binds And Executes", func(t *testing.T) {
		api := &fakeAPI{projects: oneProject()}
		uc := newUseCase(api, &sequenceProvider{responses: []*llmprovider.Response{
			textResponse("O projeto DEMO tem 42 casos de teste."),
		}}, &stubClassifier{out: classifier.Output{Intent: classifier.IntentQueryData, NeedsProject: true}})

		out := uc.Run(ctx, testConfig(), "mostre os casos de teste")
		if out.NeedsProjectSelection {
			t.Error("single project must auto-bind without asking")
		}
		if out.Response != "O projeto DEMO tem 42 casos de teste." {
			t.Errorf("unexpected response: %q", out.Response)
		}
		if out.Err != "" {
			t.Errorf("unexpected error: %s", out.Err)
		}
	})

	t.Run("Bound Project Persists Across Turns", func(t *testing.T) {
		api := &fakeAPI{projects: oneProject()}
		uc := newUseCase(api, &sequenceProvider{responses: []*llmprovider.Response{
			textResponse("resposta"),
		}}, &stubClassifier{out: classifier.Output{Intent: classifier.IntentQueryData, NeedsProject: true}})

		uc.Run(ctx, testConfig(), "mostre os casos de teste")
		fetchesAfterFirst := api.calls

		uc.Run(ctx, testConfig(), "e as execuções?")
		if api.calls != fetchesAfterFirst {
			t.Errorf("second turn must skip project resolution, calls went %d -> %d",
				fetchesAfterFirst, api.calls)
		}
	})
}

func TestRunNeedsSelection(t *testing.T) {
	ctx := context.Background()

	api := &fakeAPI{projects: twoProjects()}
	uc := newUseCase(api, &sequenceProvider{}, &stubClassifier{
		out: classifier.Output{Intent: classifier.IntentQueryData, NeedsProject: true},
	})

	out := uc.Run(ctx, testConfig(), "quantos defeitos temos?")
	if !out.NeedsProjectSelection {
		t.Error("multiple projects must require selection")
	}
	if len(out.Projects) < 2 {
		t.Errorf("expected at least 2 projects, got %d", len(out.Projects))
	}
	if !strings.Contains(out.Response, "DEMO") || !strings.Contains(out.Response, "WEB") {
		t.Errorf("selection question must enumerate projects: %q", out.Response)
	}
}

func TestRunListProjects(t *testing.T) {
	ctx := context.Background()

	api := &fakeAPI{projects: twoProjects()}
	uc := newUseCase(api, &sequenceProvider{}, &stubClassifier{
		out: classifier.Output{Intent: classifier.IntentListProjects},
	})

	out := uc.Run(ctx, testConfig(), "quais são meus projetos?")
	if !strings.Contains(out.Response, "DEMO") || !strings.Contains(out.Response, "WEB") {
		t.Errorf("response must enumerate both codes: %q", out.Response)
	}
	if len(out.ToolsUsed) != 1 || out.ToolsUsed[0] != "list_projects" {
		t.Errorf("expected toolsUsed=[list_projects], got %v", out.ToolsUsed)
	}
	if out.NeedsProjectSelection {
		t.Error("listing projects must not require selection")
	}
}

func TestRunSelectProject(t *testing.T) {
	ctx := context.Background()

	t.Run("Known Code Binds", func(t *testing.T) {
		api := &fakeAPI{projects: twoProjects()}
		uc := newUseCase(api, &sequenceProvider{responses: []*llmprovider.Response{
			textResponse("resposta"),
		}}, &stubClassifier{
			out: classifier.Output{Intent: classifier.IntentSelectProject, ProjectCode: "WEB"},
		})

		out := uc.Run(ctx, testConfig(), "usar o projeto WEB")
		if !strings.Contains(out.Response, "WEB") {
			t.Errorf("confirmation must name the project: %q", out.Response)
		}
		if out.NeedsProjectSelection {
			t.Error("a valid selection must not re-ask")
		}
	})

	t.Run("Unknown Code Re-Asks", func(t *testing.T) {
		api := &fakeAPI{projects: twoProjects()}
		uc := newUseCase(api, &sequenceProvider{}, &stubClassifier{
			out: classifier.Output{Intent: classifier.IntentSelectProject, ProjectCode: "NOPE"},
		})

		out := uc.Run(ctx, testConfig(), "usar o projeto NOPE")
		if !out.NeedsProjectSelection {
			t.Error("unknown code must require selection")
		}
		if !strings.Contains(out.Response, "NOPE") {
			t.Errorf("response must name the unknown code: %q", out.Response)
		}
		if len(out.Projects) != 2 {
			t.Errorf("expected available projects in output, got %v", out.Projects)
		}
	})
}

func TestRunErrorFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("Timeout Flavored Agent Error", func(t *testing.T) {
		uc := newUseCase(&fakeAPI{}, &sequenceProvider{err: errors.New("request timed out")},
			&stubClassifier{out: classifier.Output{Intent: classifier.IntentQueryData, ProjectCode: "DEMO"}})

		out := uc.Run(ctx, testConfig(), "quantos casos temos?")
		if out.Response != agent.MsgTimeout {
			t.Errorf("expected timeout fallback, got %q", out.Response)
		}
		if out.Err == "" {
			t.Error("original error must be retained for logging")
		}
	})

	t.Run("Auth Flavored Agent Error", func(t *testing.T) {
		uc := newUseCase(&fakeAPI{}, &sequenceProvider{err: errors.New("401 unauthorized")},
			&stubClassifier{out: classifier.Output{Intent: classifier.IntentQueryData, ProjectCode: "DEMO"}})

		out := uc.Run(ctx, testConfig(), "quantos casos temos?")
		if out.Response != agent.MsgAuthError {
			t.Errorf("expected auth fallback, got %q", out.Response)
		}
	})

	t.Run("Metrics Listing Failure", func(t *testing.T) {
		api := &fakeAPI{err: errors.New("upstream down")}
		uc := newUseCase(api, &sequenceProvider{}, &stubClassifier{
			out: classifier.Output{Intent: classifier.IntentListProjects},
		})

		out := uc.Run(ctx, testConfig(), "quais projetos?")
		if out.Response != orchestrator.MsgListFailed {
			t.Errorf("expected listing fallback, got %q", out.Response)
		}
		if out.Err == "" {
			t.Error("original error must be retained")
		}
	})

	t.Run("Panic Becomes Generic Apology", func(t *testing.T) {
		uc := newUseCase(&fakeAPI{}, &sequenceProvider{}, &stubClassifier{panic: true})

		out := uc.Run(ctx, testConfig(), "oi")
		if out.Response != agent.MsgGenericError {
			t.Errorf("expected generic apology, got %q", out.Response)
		}
		if out.Err == "" {
			t.Error("panic value must be retained")
		}
		if out.DurationMs < 0 {
			t.Errorf("duration must be well-formed, got %d", out.DurationMs)
		}
	})
}

func TestRunValidation(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(&fakeAPI{}, &sequenceProvider{}, &stubClassifier{})

	t.Run("Empty Message", func(t *testing.T) {
		out := uc.Run(ctx, testConfig(), "   ")
		if out.Response != orchestrator.MsgEmptyMessage {
			t.Errorf("expected empty-message response, got %q", out.Response)
		}
		if out.Err == "" {
			t.Error("validation failure must be retained")
		}
	})

	t.Run("Missing User", func(t *testing.T) {
		cfg := testConfig()
		cfg.UserID = ""
		out := uc.Run(ctx, cfg, "oi")
		if out.Response != orchestrator.MsgMissingUser {
			t.Errorf("expected missing-user response, got %q", out.Response)
		}
	})

	t.Run("Missing Token On Data Path", func(t *testing.T) {
		uc := newUseCase(&fakeAPI{}, &sequenceProvider{}, &stubClassifier{
			out: classifier.Output{Intent: classifier.IntentQueryData, ProjectCode: "DEMO"},
		})
		cfg := testConfig()
		cfg.ProviderToken = ""
		out := uc.Run(ctx, cfg, "quantos casos?")
		if out.Response != orchestrator.MsgMissingToken {
			t.Errorf("expected missing-token response, got %q", out.Response)
		}
	})
}

func TestRunWarmCache(t *testing.T) {
	ctx := context.Background()

	api := &fakeAPI{projects: twoProjects()}
	uc := newUseCase(api, &sequenceProvider{}, &stubClassifier{
		out: classifier.Output{Intent: classifier.IntentListProjects},
	})

	first := uc.Run(ctx, testConfig(), "quais são meus projetos?")
	if api.calls != 1 {
		t.Fatalf("cold cache must fetch upstream once, got %d", api.calls)
	}

	second := uc.Run(ctx, testConfig(), "quais são meus projetos?")
	if api.calls != 1 {
		t.Errorf("warm cache must issue zero upstream fetches, got %d total", api.calls)
	}
	if len(first.Projects) != len(second.Projects) {
		t.Errorf("warm result must match cold result: %v vs %v", first.Projects, second.Projects)
	}
	if first.Response != second.Response {
		t.Errorf("responses must match: %q vs %q", first.Response, second.Response)
	}
}
