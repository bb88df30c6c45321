package http

import (
	"qametrics-assistant/internal/assistant"
	"qametrics-assistant/internal/model"
	"qametrics-assistant/pkg/response"

	"github.com/gin-gonic/gin"
)

// Log prefixes
const (
	logPrefixChat       = "internal.assistant.delivery.http.Chat"
	logPrefixChatStream = "internal.assistant.delivery.http.ChatStream"
)

// Credential headers. The provider token follows the Qase convention.
const (
	headerProviderToken = "Token"
	headerModelAPIKey   = "X-Model-Api-Key"
)

func (h *handler) bind(c *gin.Context) (assistant.Config, string, bool) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return assistant.Config{}, "", false
	}

	cfg := assistant.Config{
		ModelAPIKey:   c.GetHeader(headerModelAPIKey),
		ProviderToken: c.GetHeader(headerProviderToken),
		UserID:        req.UserID,
		ProjectCode:   req.ProjectCode,
	}
	return cfg, req.Message, true
}

// Chat processes one assistant message and blocks for the answer
// @Summary Chat with the assistant
// @Description Send a natural-language question about QA metrics and receive the full answer
// @Tags assistant
// @Accept json
// @Produce json
// @Param Token header string false "Metrics provider API token"
// @Param X-Model-Api-Key header string false "LLM provider API key"
// @Param request body ChatRequest true "Chat message"
// @Success 200 {object} ChatResponse
// @Router /api/v1/assistant/chat [post]
func (h *handler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	cfg, message, ok := h.bind(c)
	if !ok {
		return
	}

	out := h.uc.Run(ctx, cfg, message)
	if out.Err != "" {
		h.l.Warnf(ctx, "%s: degraded answer for user %s: %s", logPrefixChat, cfg.UserID, out.Err)
	}

	response.OK(c, toChatResponse(out))
}

// ChatStream processes one assistant message over Server-Sent Events
// @Summary Chat with the assistant (streaming)
// @Description Send a question and receive tokens and tool events as SSE frames
// @Tags assistant
// @Accept json
// @Produce text/event-stream
// @Param Token header string false "Metrics provider API token"
// @Param X-Model-Api-Key header string false "LLM provider API key"
// @Param request body ChatRequest true "Chat message"
// @Success 200 {string} string "SSE stream"
// @Router /api/v1/assistant/chat/stream [post]
func (h *handler) ChatStream(c *gin.Context) {
	ctx := c.Request.Context()

	cfg, message, ok := h.bind(c)
	if !ok {
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	send := func(name string, data interface{}) {
		c.SSEvent(name, data)
		c.Writer.Flush()
	}

	out := h.uc.RunStream(ctx, cfg, message, assistant.Callbacks{
		OnToken: func(token string) {
			send("token", token)
		},
		OnToolStart: func(tool string) {
			send("tool_start", gin.H{"tool": tool})
		},
		OnToolEnd: func(tool string) {
			send("tool_end", gin.H{"tool": tool})
		},
		OnProjectsFound: func(projects []model.Project) {
			send("projects_found", gin.H{"projects": projects})
		},
		OnNeedsProjectSelection: func(projects []model.Project) {
			send("needs_selection", gin.H{"projects": projects})
		},
		OnError: func(errMsg string) {
			send("error", gin.H{"message": errMsg})
		},
		OnDone: func(o assistant.RunOutput) {
			send("done", toChatResponse(o))
		},
	})

	if out.Err != "" {
		h.l.Warnf(ctx, "%s: degraded answer for user %s: %s", logPrefixChatStream, cfg.UserID, out.Err)
	}
}
