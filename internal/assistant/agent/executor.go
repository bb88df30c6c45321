package agent

import (
	"context"
	"fmt"
	"sort"
	"time"

	"qametrics-assistant/internal/assistant/memory"
	"qametrics-assistant/pkg/llmprovider"
	pkgLog "qametrics-assistant/pkg/log"
)

// Executor drives the reasoning/tool loop for one (user, project)
// scope. It binds the session conversation as context and records
// which tools served the answer.
type Executor struct {
	llm      *llmprovider.Manager
	registry *Registry
	conv     *memory.Conversation
	l        pkgLog.Logger

	systemPrompt string
	maxSteps     int
}

// NewExecutor creates an executor bound to the given conversation and
// project scope. projectCode may be empty for an all-projects agent.
func NewExecutor(llm *llmprovider.Manager, registry *Registry, conv *memory.Conversation, l pkgLog.Logger, projectCode string, maxSteps int) *Executor {
	scope := SystemPromptAllProjects
	if projectCode != "" {
		scope = fmt.Sprintf(SystemPromptProjectScope, projectCode)
	}
	if maxSteps <= 0 {
		maxSteps = MaxAgentSteps
	}
	return &Executor{
		llm:          llm,
		registry:     registry,
		conv:         conv,
		l:            l,
		systemPrompt: fmt.Sprintf(SystemPromptTemplate, scope),
		maxSteps:     maxSteps,
	}
}

// Chat answers input, blocking until the final response.
func (e *Executor) Chat(ctx context.Context, input string) (Result, error) {
	return e.run(ctx, input, nil, nil, nil)
}

// ChatStream answers input, emitting text tokens and tool lifecycle
// events as they happen. Any callback may be nil.
func (e *Executor) ChatStream(ctx context.Context, input string, onToken func(string), onToolStart, onToolEnd func(string)) (Result, error) {
	return e.run(ctx, input, onToken, onToolStart, onToolEnd)
}

func (e *Executor) run(ctx context.Context, input string, onToken func(string), onToolStart, onToolEnd func(string)) (Result, error) {
	start := time.Now()
	toolsUsed := make(map[string]struct{})

	req := &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{
			Role:  "system",
			Parts: []llmprovider.Part{{Text: e.systemPrompt}},
		},
		Messages:    e.historyMessages(input),
		Tools:       e.registry.ToFunctionDefinitions(),
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}

	for step := 0; step < e.maxSteps; step++ {
		e.l.Infof(ctx, "%s: step %d/%d", LogPrefixChat, step+1, e.maxSteps)

		var resp *llmprovider.Response
		var err error
		if onToken != nil {
			resp, err = e.llm.GenerateContentStream(ctx, req, func(c llmprovider.StreamChunk) {
				onToken(c.Text)
			})
		} else {
			resp, err = e.llm.GenerateContent(ctx, req)
		}
		if err != nil {
			return Result{DurationMs: time.Since(start).Milliseconds()},
				fmt.Errorf("agent LLM error at step %d: %w", step+1, err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			output := resp.Text()
			if output == "" {
				// Model produced neither text nor a tool call; degrade
				// to the canned fallback instead of failing the turn.
				e.l.Warnf(ctx, "%s: empty model turn at step %d", LogPrefixChat, step+1)
				output = MsgParseFallback
			}

			e.conv.AddHuman(input)
			e.conv.AddAI(output)

			e.l.Infof(ctx, "%s: finished at step %d", LogPrefixChat, step+1)
			return Result{
				Output:     output,
				ToolsUsed:  sortedKeys(toolsUsed),
				DurationMs: time.Since(start).Milliseconds(),
			}, nil
		}

		// Feed the model's tool request back before the results.
		assistantParts := make([]llmprovider.Part, 0, len(calls))
		for _, call := range calls {
			assistantParts = append(assistantParts, llmprovider.Part{FunctionCall: call})
		}
		req.Messages = append(req.Messages, llmprovider.Message{Role: "assistant", Parts: assistantParts})

		for _, call := range calls {
			toolResult := e.executeTool(ctx, call, toolsUsed, onToolStart, onToolEnd)
			req.Messages = append(req.Messages, llmprovider.Message{
				Role: "function",
				Parts: []llmprovider.Part{{
					FunctionResponse: &llmprovider.FunctionResponse{
						Name:     call.Name,
						Response: toolResult,
					},
				}},
			})
		}
	}

	e.l.Warnf(ctx, "%s: exceeded max steps (%d)", LogPrefixChat, e.maxSteps)
	e.conv.AddHuman(input)
	e.conv.AddAI(MsgMaxStepsExceeded)
	return Result{
		Output:     MsgMaxStepsExceeded,
		ToolsUsed:  sortedKeys(toolsUsed),
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// executeTool runs one tool call. Failures are captured as an error
// payload returned to the model, never thrown to the caller, so the
// model can explain a partial failure instead of aborting the turn.
func (e *Executor) executeTool(ctx context.Context, call *llmprovider.FunctionCall, toolsUsed map[string]struct{}, onToolStart, onToolEnd func(string)) interface{} {
	e.l.Infof(ctx, "%s: calling tool %s with args %+v", LogPrefixChat, call.Name, call.Args)

	if onToolStart != nil {
		onToolStart(call.Name)
	}
	defer func() {
		if onToolEnd != nil {
			onToolEnd(call.Name)
		}
	}()

	tool, ok := e.registry.Get(call.Name)
	if !ok {
		e.l.Errorf(ctx, "%s: tool %s not found", LogPrefixChat, call.Name)
		return map[string]string{toolErrorKey: "tool not found"}
	}

	toolsUsed[call.Name] = struct{}{}

	res, err := tool.Execute(ctx, call.Args)
	if err != nil {
		e.l.Errorf(ctx, "%s: tool %s failed: %v", LogPrefixChat, call.Name, err)
		return map[string]string{toolErrorKey: err.Error()}
	}
	return res
}

// historyMessages converts the bound conversation plus the new input
// into provider messages.
func (e *Executor) historyMessages(input string) []llmprovider.Message {
	turns := e.conv.Messages()
	msgs := make([]llmprovider.Message, 0, len(turns)+1)
	for _, turn := range turns {
		msgs = append(msgs, llmprovider.Message{
			Role:  string(turn.Role),
			Parts: []llmprovider.Part{{Text: turn.Content}},
		})
	}
	msgs = append(msgs, llmprovider.Message{
		Role:  "user",
		Parts: []llmprovider.Part{{Text: input}},
	})
	return msgs
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
