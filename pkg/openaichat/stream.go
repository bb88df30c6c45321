package openaichat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GenerateContentStream sends a streaming generation request. onChunk is
// invoked for every text delta in arrival order; the assembled response,
// including any tool calls, is returned once the stream completes.
func (c *Client) GenerateContentStream(ctx context.Context, req *Request, onChunk func(StreamChunk)) (*Response, error) {
	openAIReq := c.transformRequest(req)
	openAIReq.Stream = true

	body, err := json.Marshal(openAIReq)
	if err != nil {
		return nil, fmt.Errorf("openaichat: failed to marshal stream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("openaichat: failed to create stream request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openaichat: stream API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openaichat: stream API error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return c.consumeStream(resp.Body, onChunk)
}

// consumeStream reads SSE frames, emitting text deltas and accumulating
// tool call fragments by index until the stream terminates.
func (c *Client) consumeStream(body io.Reader, onChunk func(StreamChunk)) (*Response, error) {
	var text strings.Builder
	toolCalls := make(map[int]*openAIToolCall)
	maxIndex := -1

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var chunk openAIStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Skip malformed frames; the terminating frame decides the result.
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			text.WriteString(delta.Content)
			if onChunk != nil {
				onChunk(StreamChunk{Text: delta.Content})
			}
		}

		for _, tc := range delta.ToolCalls {
			idx := 0
			if tc.Index != nil {
				idx = *tc.Index
			}
			if idx > maxIndex {
				maxIndex = idx
			}
			acc, ok := toolCalls[idx]
			if !ok {
				acc = &openAIToolCall{Type: "function"}
				toolCalls[idx] = acc
			}
			if tc.ID != "" {
				acc.ID = tc.ID
			}
			if tc.Function.Name != "" {
				acc.Function.Name += tc.Function.Name
			}
			acc.Function.Arguments += tc.Function.Arguments
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("openaichat: stream read failed: %w", err)
	}

	message := Content{Role: "assistant", Parts: make([]Part, 0)}
	if text.Len() > 0 {
		message.Parts = append(message.Parts, Part{Text: text.String()})
	}
	for i := 0; i <= maxIndex; i++ {
		acc, ok := toolCalls[i]
		if !ok || acc.Function.Name == "" {
			continue
		}
		var args map[string]interface{}
		if err := json.Unmarshal([]byte(acc.Function.Arguments), &args); err != nil {
			args = make(map[string]interface{})
		}
		message.Parts = append(message.Parts, Part{
			FunctionCall: &FunctionCall{Name: acc.Function.Name, Args: args},
		})
	}

	return &Response{Content: message, Usage: &Usage{}}, nil
}
