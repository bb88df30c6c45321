package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"qametrics-assistant/internal/assistant"
	"qametrics-assistant/internal/assistant/agent"
	"qametrics-assistant/internal/assistant/classifier"
	"qametrics-assistant/internal/assistant/memory"
	"qametrics-assistant/internal/assistant/tools"
	"qametrics-assistant/internal/model"
	"qametrics-assistant/pkg/cache"
	"qametrics-assistant/pkg/llmprovider"
	"qametrics-assistant/pkg/qase"
)

// emitter publishes streaming events; nil on the blocking path.
type emitter func(event)

// Run processes one user message and blocks until the response is
// complete. It never returns an error: every failure degrades to a
// well-formed RunOutput with a fallback response.
func (uc *implUseCase) Run(ctx context.Context, cfg assistant.Config, message string) assistant.RunOutput {
	return uc.run(ctx, cfg, message, nil)
}

func (uc *implUseCase) run(ctx context.Context, cfg assistant.Config, message string, emit emitter) (out assistant.RunOutput) {
	st := newState(cfg, strings.TrimSpace(message))

	// Nothing inside the traversal may escape as a panic: the caller
	// always receives a well-formed result.
	defer func() {
		if r := recover(); r != nil {
			uc.l.Errorf(ctx, "%s: run %s panicked: %v", LogPrefixRun, st.runID, r)
			out = assistant.RunOutput{
				Response:   agent.MsgGenericError,
				ToolsUsed:  []string{},
				DurationMs: time.Since(st.started).Milliseconds(),
				Err:        fmt.Sprint(r),
			}
			if emit != nil {
				emit(event{kind: eventError, errMsg: out.Response})
				emit(event{kind: eventDone, out: out})
			}
		}
	}()

	if msg, err := uc.validate(st); err != nil {
		uc.l.Warnf(ctx, "%s: run %s rejected: %v", LogPrefixRun, st.runID, err)
		st.response = msg
		st.err = err
		out = uc.finish(ctx, st, emit)
		return out
	}

	uc.l.Infof(ctx, "%s: run %s started for user %s", LogPrefixRun, st.runID, cfg.UserID)

	for n := nodeAnalyzeIntent; n != nodeEnd; {
		next := uc.step(ctx, st, n, emit)
		uc.l.Debugf(ctx, "%s: run %s %s -> %s", LogPrefixRun, st.runID, n, next)
		n = next
	}

	out = uc.finish(ctx, st, emit)
	return out
}

func (uc *implUseCase) validate(st *state) (string, error) {
	if st.cfg.UserID == "" {
		return MsgMissingUser, assistant.ErrMissingUser
	}
	if st.input == "" {
		return MsgEmptyMessage, assistant.ErrEmptyMessage
	}
	return "", nil
}

func (uc *implUseCase) step(ctx context.Context, st *state, n node, emit emitter) node {
	switch n {
	case nodeAnalyzeIntent:
		return uc.analyzeIntent(ctx, st)
	case nodeResolveProject:
		return uc.resolveProject(ctx, st, emit)
	case nodeExecuteAgent:
		return uc.executeAgent(ctx, st, emit)
	case nodeListProjects:
		return uc.listProjects(ctx, st, emit)
	case nodeSelectProject:
		return uc.selectProject(ctx, st, emit)
	case nodeGeneralResponse:
		return uc.generalResponse(ctx, st, emit)
	case nodeAskProjectSelection:
		return uc.askProjectSelection(st, emit)
	default:
		return nodeEnd
	}
}

// analyzeIntent classifies the message and routes. A project mention
// extracted by the classifier wins over the remembered session scope.
func (uc *implUseCase) analyzeIntent(ctx context.Context, st *state) node {
	prior := st.cfg.ProjectCode
	if prior == "" {
		prior, _ = uc.contexts.Get(st.cfg.UserID)
	}

	cls := uc.classifier.Classify(ctx, st.cfg.ModelAPIKey, st.input, prior)
	st.intent = cls.Intent

	if cls.ProjectCode != "" {
		st.projectCode = cls.ProjectCode
		st.boundByRun = true
	} else {
		st.projectCode = prior
	}

	uc.l.Infof(ctx, "%s: run %s intent=%s project=%q", LogPrefixRun, st.runID, st.intent, st.projectCode)

	switch st.intent {
	case classifier.IntentListProjects:
		return nodeListProjects
	case classifier.IntentSelectProject:
		if st.projectCode == "" {
			return nodeResolveProject
		}
		return nodeSelectProject
	case classifier.IntentQueryData:
		if st.projectCode == "" {
			return nodeResolveProject
		}
		return nodeExecuteAgent
	default:
		return nodeGeneralResponse
	}
}

// resolveProject figures out which project a data question applies to
// when neither the session nor the message names one.
func (uc *implUseCase) resolveProject(ctx context.Context, st *state, emit emitter) node {
	projects, err := uc.fetchProjects(ctx, st)
	if err != nil {
		st.err = err
		st.response = MsgListFailed
		return nodeEnd
	}

	switch len(projects) {
	case 0:
		st.response = MsgNoProjects
		return nodeEnd
	case 1:
		st.projectCode = projects[0].Code
		st.boundByRun = true
		uc.l.Infof(ctx, "%s: run %s auto-bound project %s", LogPrefixRun, st.runID, st.projectCode)
		return nodeExecuteAgent
	default:
		st.projects = projects
		st.needsProjectSelection = true
		return nodeAskProjectSelection
	}
}

func (uc *implUseCase) askProjectSelection(st *state, emit emitter) node {
	var b strings.Builder
	b.WriteString(MsgSelectHeader)
	for _, p := range st.projects {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(MsgProjectLine, p.Code, p.Title))
	}
	st.response = b.String()

	if emit != nil {
		emit(event{kind: eventNeedsSelection, projects: st.projects})
	}
	return nodeEnd
}

// executeAgent answers a data question through the cached tool-calling
// agent for (user, project).
func (uc *implUseCase) executeAgent(ctx context.Context, st *state, emit emitter) node {
	if st.cfg.ProviderToken == "" {
		st.err = assistant.ErrMissingToken
		st.response = MsgMissingToken
		return nodeEnd
	}

	ex, err := uc.agents.GetOrCreate(st.cfg.UserID, st.projectCode, false, func() (*agent.Executor, error) {
		return uc.buildExecutor(st)
	})
	if err != nil {
		uc.l.Errorf(ctx, "%s: run %s agent build failed: %v", LogPrefixRun, st.runID, err)
		st.err = err
		st.response = agent.UserFacingMessage(err)
		return nodeEnd
	}

	var result agent.Result
	if emit != nil {
		result, err = ex.ChatStream(ctx, st.input,
			func(tok string) { emit(event{kind: eventToken, token: tok}) },
			func(name string) { emit(event{kind: eventToolStart, tool: name}) },
			func(name string) { emit(event{kind: eventToolEnd, tool: name}) },
		)
	} else {
		result, err = ex.Chat(ctx, st.input)
	}
	if err != nil {
		uc.l.Errorf(ctx, "%s: run %s agent failed: %v", LogPrefixRun, st.runID, err)
		st.err = err
		st.response = agent.UserFacingMessage(err)
		return nodeEnd
	}

	st.response = result.Output
	for _, tool := range result.ToolsUsed {
		st.toolsUsed[tool] = struct{}{}
	}
	return nodeEnd
}

func (uc *implUseCase) buildExecutor(st *state) (*agent.Executor, error) {
	mgr, err := uc.llmFactory(st.cfg.ModelAPIKey)
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry(tools.Deps{
		API:         uc.metrics(st.cfg.ProviderToken),
		Cache:       uc.cacheStore,
		UserID:      st.cfg.UserID,
		ProjectCode: st.projectCode,
		CacheTTL:    uc.cfg.ToolCacheTTL,
		Logger:      uc.l,
	})
	conv := uc.sessions.Get(memory.SessionKey(st.cfg.UserID, st.projectCode))

	return agent.NewExecutor(mgr, registry, conv, uc.l, st.projectCode, uc.cfg.AgentMaxSteps), nil
}

func (uc *implUseCase) listProjects(ctx context.Context, st *state, emit emitter) node {
	projects, err := uc.fetchProjects(ctx, st)
	if err != nil {
		st.err = err
		st.response = MsgListFailed
		return nodeEnd
	}
	if len(projects) == 0 {
		st.response = MsgNoProjects
		return nodeEnd
	}

	st.projects = projects
	st.toolsUsed[tools.NameListProjects] = struct{}{}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(MsgListHeader, len(projects)))
	for _, p := range projects {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(MsgProjectLine, p.Code, p.Title))
	}
	st.response = b.String()

	if emit != nil {
		emit(event{kind: eventProjectsFound, projects: projects})
	}
	return nodeEnd
}

// selectProject binds an explicitly named project after checking it
// actually exists in the user's account.
func (uc *implUseCase) selectProject(ctx context.Context, st *state, emit emitter) node {
	projects, err := uc.fetchProjects(ctx, st)
	if err != nil {
		st.err = err
		st.response = MsgListFailed
		return nodeEnd
	}

	for _, p := range projects {
		if strings.EqualFold(p.Code, st.projectCode) {
			st.projectCode = p.Code
			st.boundByRun = true
			st.response = fmt.Sprintf(MsgProjectBound, p.Code)
			return nodeEnd
		}
	}

	st.boundByRun = false
	st.response = fmt.Sprintf(MsgProjectUnknown, st.projectCode)
	st.projectCode = ""
	if len(projects) > 0 {
		st.projects = projects
		st.needsProjectSelection = true
		var b strings.Builder
		b.WriteString(st.response)
		b.WriteString("\n")
		b.WriteString(MsgSelectHeader)
		for _, p := range projects {
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf(MsgProjectLine, p.Code, p.Title))
		}
		st.response = b.String()
		if emit != nil {
			emit(event{kind: eventNeedsSelection, projects: projects})
		}
	}
	return nodeEnd
}

// generalResponse handles non-data chat through the model directly,
// reading and extending the session memory so small talk keeps context.
func (uc *implUseCase) generalResponse(ctx context.Context, st *state, emit emitter) node {
	mgr, err := uc.llmFactory(st.cfg.ModelAPIKey)
	if err != nil {
		uc.l.Errorf(ctx, "%s: run %s general chat unavailable: %v", LogPrefixRun, st.runID, err)
		st.err = err
		st.response = agent.MsgGenericError
		return nodeEnd
	}

	conv := uc.sessions.Get(memory.SessionKey(st.cfg.UserID, st.projectCode))

	req := &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{
			Role:  "system",
			Parts: []llmprovider.Part{{Text: generalSystemPrompt}},
		},
		Messages:    historyMessages(conv, st.input),
		Temperature: 0.7,
		MaxTokens:   512,
	}

	var resp *llmprovider.Response
	if emit != nil {
		resp, err = mgr.GenerateContentStream(ctx, req, func(c llmprovider.StreamChunk) {
			emit(event{kind: eventToken, token: c.Text})
		})
	} else {
		resp, err = mgr.GenerateContent(ctx, req)
	}
	if err != nil {
		uc.l.Errorf(ctx, "%s: run %s general chat failed: %v", LogPrefixRun, st.runID, err)
		st.err = err
		st.response = agent.UserFacingMessage(err)
		return nodeEnd
	}

	st.response = resp.Text()
	conv.AddHuman(st.input)
	conv.AddAI(st.response)
	return nodeEnd
}

// fetchProjects returns the user's projects, cache-first.
func (uc *implUseCase) fetchProjects(ctx context.Context, st *state) ([]model.Project, error) {
	if st.cfg.ProviderToken == "" {
		return nil, assistant.ErrMissingToken
	}

	opt := qase.ListProjectsOptions{Limit: 100}
	key := cache.Key(st.cfg.UserID, "projects", opt)

	var list qase.ProjectList
	if uc.cacheStore != nil && cache.GetJSON(ctx, uc.cacheStore, key, &list) {
		uc.l.Debugf(ctx, "%s: run %s project list served from cache", LogPrefixRun, st.runID)
		return toModelProjects(list), nil
	}

	list, err := uc.metrics(st.cfg.ProviderToken).ListProjects(ctx, opt)
	if err != nil {
		return nil, err
	}

	if uc.cacheStore != nil {
		if err := cache.SetJSON(ctx, uc.cacheStore, key, list, uc.cfg.ToolCacheTTL); err != nil {
			uc.l.Warnf(ctx, "%s: run %s project list cache write failed: %v", LogPrefixRun, st.runID, err)
		}
	}
	return toModelProjects(list), nil
}

// finish applies the post-run side effects and assembles the output.
func (uc *implUseCase) finish(ctx context.Context, st *state, emit emitter) assistant.RunOutput {
	if st.boundByRun && st.projectCode != "" && st.err == nil {
		prior, _ := uc.contexts.Get(st.cfg.UserID)
		if prior != st.projectCode {
			uc.contexts.Set(st.cfg.UserID, st.projectCode)
			// The agent for the old scope carries stale tooling; drop it.
			if prior != "" {
				uc.agents.Evict(st.cfg.UserID, prior)
			}
			uc.l.Infof(ctx, "%s: run %s session project set to %s", LogPrefixRun, st.runID, st.projectCode)
		}
	}

	out := assistant.RunOutput{
		Response:              st.response,
		NeedsProjectSelection: st.needsProjectSelection,
		Projects:              st.projects,
		ToolsUsed:             sortedTools(st.toolsUsed),
		DurationMs:            time.Since(st.started).Milliseconds(),
	}
	if st.err != nil {
		out.Err = st.err.Error()
		if emit != nil {
			emit(event{kind: eventError, errMsg: out.Response})
		}
	}

	uc.l.Infof(ctx, "%s: run %s finished in %dms (tools=%v)", LogPrefixRun, st.runID, out.DurationMs, out.ToolsUsed)

	if emit != nil {
		emit(event{kind: eventDone, out: out})
	}
	return out
}

func historyMessages(conv *memory.Conversation, input string) []llmprovider.Message {
	turns := conv.Messages()
	msgs := make([]llmprovider.Message, 0, len(turns)+1)
	for _, turn := range turns {
		msgs = append(msgs, llmprovider.Message{
			Role:  string(turn.Role),
			Parts: []llmprovider.Part{{Text: turn.Content}},
		})
	}
	return append(msgs, llmprovider.Message{
		Role:  "user",
		Parts: []llmprovider.Part{{Text: input}},
	})
}

func toModelProjects(list qase.ProjectList) []model.Project {
	out := make([]model.Project, 0, len(list.Entities))
	for _, p := range list.Entities {
		out = append(out, model.Project{
			Code:       p.Code,
			Title:      p.Title,
			CasesCount: p.CasesCount,
		})
	}
	return out
}

func sortedTools(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
