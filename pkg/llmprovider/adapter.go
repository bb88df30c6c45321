package llmprovider

import (
	"context"

	"qametrics-assistant/pkg/openaichat"
)

// OpenAIAdapter adapts an openaichat.Client (OpenAI, DeepSeek, or any
// compatible endpoint) to the Provider interface.
type OpenAIAdapter struct {
	name   string
	client *openaichat.Client
}

// NewOpenAIAdapter creates a new adapter with the given provider name.
func NewOpenAIAdapter(name string, client *openaichat.Client) *OpenAIAdapter {
	return &OpenAIAdapter{name: name, client: client}
}

// GenerateContent implements Provider.
func (a *OpenAIAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	resp, err := a.client.GenerateContent(ctx, toOpenAIRequest(req))
	if err != nil {
		return nil, err
	}
	return fromOpenAIResponse(resp), nil
}

// GenerateContentStream implements StreamingProvider.
func (a *OpenAIAdapter) GenerateContentStream(ctx context.Context, req *Request, onChunk func(StreamChunk)) (*Response, error) {
	resp, err := a.client.GenerateContentStream(ctx, toOpenAIRequest(req), func(c openaichat.StreamChunk) {
		onChunk(StreamChunk{Text: c.Text})
	})
	if err != nil {
		return nil, err
	}
	return fromOpenAIResponse(resp), nil
}

// Name returns the provider name.
func (a *OpenAIAdapter) Name() string {
	return a.name
}

// Model returns the model name.
func (a *OpenAIAdapter) Model() string {
	return a.client.Model()
}

func toOpenAIRequest(req *Request) *openaichat.Request {
	out := &openaichat.Request{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.SystemInstruction != nil {
		sys := toOpenAIContent(*req.SystemInstruction)
		out.SystemInstruction = &sys
	}
	for _, msg := range req.Messages {
		out.Messages = append(out.Messages, toOpenAIContent(msg))
	}
	for _, tool := range req.Tools {
		out.Tools = append(out.Tools, openaichat.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		})
	}
	return out
}

func toOpenAIContent(msg Message) openaichat.Content {
	content := openaichat.Content{Role: msg.Role}
	for _, p := range msg.Parts {
		part := openaichat.Part{Text: p.Text}
		if p.FunctionCall != nil {
			part.FunctionCall = &openaichat.FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		if p.FunctionResponse != nil {
			part.FunctionResponse = &openaichat.FunctionResponse{Name: p.FunctionResponse.Name, Response: p.FunctionResponse.Response}
		}
		content.Parts = append(content.Parts, part)
	}
	return content
}

func fromOpenAIResponse(resp *openaichat.Response) *Response {
	out := &Response{
		Content: Message{Role: resp.Content.Role},
		Usage:   &Usage{},
	}
	for _, p := range resp.Content.Parts {
		part := Part{Text: p.Text}
		if p.FunctionCall != nil {
			part.FunctionCall = &FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		out.Content.Parts = append(out.Content.Parts, part)
	}
	if resp.Usage != nil {
		out.Usage = &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}
	return out
}
