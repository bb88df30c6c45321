package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"qametrics-assistant/pkg/llmprovider"
)

// Classify determines the user intent for message. It fails soft: any
// failure (provider outage, malformed output, unknown intent) returns
// the general fallback so a classifier hiccup degrades to conversation
// instead of aborting the request. No retries; the fallback already
// recovers and a retry only adds latency.
func (c *SemanticClassifier) Classify(ctx context.Context, modelAPIKey, message, priorProjectCode string) Output {
	fallback := Output{Intent: IntentGeneral}

	llm, err := c.llmFactory(modelAPIKey)
	if err != nil {
		c.l.Warnf(ctx, "%s: %s: %v", LogPrefixClassify, LogMsgLLMCallFailed, err)
		return fallback
	}

	prior := priorProjectCode
	if prior == "" {
		prior = PromptNoProject
	}
	prompt := fmt.Sprintf(PromptSystem, message, prior)

	resp, err := llm.GenerateContent(ctx, &llmprovider.Request{
		Messages: []llmprovider.Message{
			{Role: "user", Parts: []llmprovider.Part{{Text: prompt}}},
		},
		Temperature: ClassifierTemperature,
		MaxTokens:   ClassifierMaxTokens,
	})
	if err != nil {
		c.l.Warnf(ctx, "%s: %s: %v", LogPrefixClassify, LogMsgLLMCallFailed, err)
		return fallback
	}

	responseText := strings.TrimSpace(resp.Text())
	if responseText == "" {
		c.l.Warnf(ctx, "%s: %s", LogPrefixClassify, LogMsgEmptyResponse)
		return fallback
	}

	responseText = stripCodeFence(responseText)

	var raw struct {
		Intent       string `json:"intent"`
		NeedsProject bool   `json:"needs_project"`
		ProjectCode  string `json:"project_code"`
	}
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		c.l.Warnf(ctx, "%s: %s: %v", LogPrefixClassify, LogMsgJSONParseFailed, err)
		return fallback
	}

	intent := Intent(strings.ToLower(strings.TrimSpace(raw.Intent)))
	if !intent.Valid() {
		c.l.Warnf(ctx, "%s: "+LogMsgUnknownIntent, LogPrefixClassify, raw.Intent)
		return fallback
	}

	return Output{
		Intent:       intent,
		NeedsProject: raw.NeedsProject,
		ProjectCode:  normalizeCode(raw.ProjectCode),
	}
}

// stripCodeFence removes markdown code blocks (```json ... ```) that
// some models wrap around structured output.
func stripCodeFence(text string) string {
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}
	return text
}

func normalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, "null") {
		return ""
	}
	return strings.ToUpper(code)
}
