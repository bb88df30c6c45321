package llmprovider

import (
	"context"
	"fmt"
	"time"

	"qametrics-assistant/pkg/log"
)

// Manager orchestrates provider selection, fallback, and retry logic.
type Manager struct {
	providers []Provider
	config    *Config
	logger    log.Logger
}

// Config defines configuration for the provider Manager.
type Config struct {
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      time.Duration
	MaxTotalTimeout time.Duration // global timeout for the entire fallback chain
}

// NewManager creates a new provider Manager.
func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 1
	}
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// GenerateContent iterates through providers in priority order with fallback.
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	return m.generate(ctx, req, nil)
}

// GenerateContentStream is the streaming variant of GenerateContent.
// Providers without native streaming emit one chunk with the full text.
func (m *Manager) GenerateContentStream(ctx context.Context, req *Request, onChunk func(StreamChunk)) (*Response, error) {
	return m.generate(ctx, req, onChunk)
}

func (m *Manager) generate(ctx context.Context, req *Request, onChunk func(StreamChunk)) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	var cancel context.CancelFunc
	if m.config.MaxTotalTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error

	for _, provider := range m.providers {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("global timeout exceeded after trying %d provider(s): %w",
				len(m.providers), ctx.Err())
		default:
		}

		resp, emitted, err := m.generateWithRetry(ctx, provider, req, onChunk)
		if err == nil {
			m.logSuccess(ctx, provider, resp)
			resp.ProviderName = provider.Name()
			resp.ModelName = provider.Model()
			return resp, nil
		}

		m.logFailure(ctx, provider, err)
		lastErr = &ProviderError{Provider: provider.Name(), Err: err}

		// A failed stream that already delivered chunks cannot fall back:
		// the next provider would replay the answer and the caller would
		// see a duplicated prefix.
		if emitted || !m.config.FallbackEnabled {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

// generateWithRetry retries one provider with linear backoff. The returned
// bool reports whether any chunk reached the caller; an attempt that already
// emitted chunks is not retried, so the caller never sees duplicated tokens.
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, req *Request, onChunk func(StreamChunk)) (*Response, bool, error) {
	var lastErr error

	for attempt := 0; attempt < m.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * m.config.RetryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, false, ctx.Err()
			}
		}

		emitted := false
		resp, err := m.invoke(ctx, provider, req, onChunk, &emitted)
		if err == nil {
			return resp, emitted, nil
		}
		lastErr = err

		if emitted {
			return nil, true, err
		}
	}

	return nil, false, lastErr
}

func (m *Manager) invoke(ctx context.Context, provider Provider, req *Request, onChunk func(StreamChunk), emitted *bool) (*Response, error) {
	if onChunk == nil {
		return provider.GenerateContent(ctx, req)
	}

	if sp, ok := provider.(StreamingProvider); ok {
		return sp.GenerateContentStream(ctx, req, func(c StreamChunk) {
			*emitted = true
			onChunk(c)
		})
	}

	resp, err := provider.GenerateContent(ctx, req)
	if err != nil {
		return nil, err
	}
	if text := resp.Text(); text != "" {
		*emitted = true
		onChunk(StreamChunk{Text: text})
	}
	return resp, nil
}

func (m *Manager) logSuccess(ctx context.Context, provider Provider, resp *Response) {
	in, out := 0, 0
	if resp.Usage != nil {
		in, out = resp.Usage.InputTokens, resp.Usage.OutputTokens
	}
	m.logger.Infof(ctx, "LLM generation successful: provider=%s model=%s input_tokens=%d output_tokens=%d",
		provider.Name(), provider.Model(), in, out)
}

func (m *Manager) logFailure(ctx context.Context, provider Provider, err error) {
	m.logger.Warnf(ctx, "LLM generation failed: provider=%s model=%s error=%v",
		provider.Name(), provider.Model(), err)
}
