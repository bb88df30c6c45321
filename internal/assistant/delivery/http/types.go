package http

import (
	"qametrics-assistant/internal/assistant"
	"qametrics-assistant/internal/model"
)

// ChatRequest is the payload for both the blocking and streaming chat
// endpoints. Credentials travel in headers, not in the body.
type ChatRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	Message     string `json:"message" binding:"required"`
	ProjectCode string `json:"project_code"`
}

// ChatResponse mirrors the orchestrator output for the blocking
// endpoint.
type ChatResponse struct {
	Response              string          `json:"response"`
	NeedsProjectSelection bool            `json:"needs_project_selection"`
	Projects              []model.Project `json:"projects,omitempty"`
	ToolsUsed             []string        `json:"tools_used"`
	DurationMs            int64           `json:"duration_ms"`
}

func toChatResponse(out assistant.RunOutput) ChatResponse {
	return ChatResponse{
		Response:              out.Response,
		NeedsProjectSelection: out.NeedsProjectSelection,
		Projects:              out.Projects,
		ToolsUsed:             out.ToolsUsed,
		DurationMs:            out.DurationMs,
	}
}
