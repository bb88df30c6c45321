// Package deepseek provides a DeepSeek client. The DeepSeek API is
// OpenAI-compatible, so the client is a configured openaichat.Client.
package deepseek

import (
	"net/http"

	"qametrics-assistant/pkg/openaichat"
)

// Config holds DeepSeek client configuration.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a new DeepSeek client.
func New(cfg Config) (*openaichat.Client, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return openaichat.New(openaichat.Config{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
	})
}
