package llmprovider

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"qametrics-assistant/config"
	"qametrics-assistant/pkg/deepseek"
	"qametrics-assistant/pkg/log"
	"qametrics-assistant/pkg/openaichat"
)

// Factory builds a Manager for a caller-supplied model API key. The key
// arrives per request; provider topology and retry policy come from config.
type Factory func(modelAPIKey string) (*Manager, error)

// NewFactory returns a Factory bound to the given LLM configuration.
func NewFactory(cfg *config.LLMConfig, logger log.Logger) Factory {
	return func(modelAPIKey string) (*Manager, error) {
		providers, err := InitializeProviders(cfg, modelAPIKey)
		if err != nil {
			return nil, err
		}
		return NewManager(providers, managerConfig(cfg), logger), nil
	}
}

// InitializeProviders creates Provider instances from config.LLMConfig,
// sorted by priority with disabled providers filtered out. A non-empty
// modelAPIKey overrides the configured key for every provider. Providers
// that fail to initialize are skipped rather than failing the chain.
func InitializeProviders(cfg *config.LLMConfig, modelAPIKey string) ([]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config is nil")
	}

	var enabled []config.ProviderConfig
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	sort.Slice(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	var providers []Provider
	var lastErr error
	for _, p := range enabled {
		provider, err := createProvider(p, modelAPIKey)
		if err != nil {
			lastErr = err
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers successfully initialized: %v", lastErr)
	}
	return providers, nil
}

func createProvider(cfg config.ProviderConfig, modelAPIKey string) (Provider, error) {
	apiKey := cfg.APIKey
	if modelAPIKey != "" {
		apiKey = modelAPIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("provider %s: API key is required", cfg.Name)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("provider %s: model is required", cfg.Name)
	}

	httpClient := &http.Client{Timeout: parseDuration(cfg.Timeout, openaichat.DefaultTimeout)}

	switch cfg.Name {
	case "openai":
		client, err := openaichat.New(openaichat.Config{
			APIKey:     apiKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		return NewOpenAIAdapter("openai", client), nil

	case "deepseek":
		client, err := deepseek.New(deepseek.Config{
			APIKey:     apiKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		return NewOpenAIAdapter("deepseek", client), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}

func managerConfig(cfg *config.LLMConfig) *Config {
	return &Config{
		FallbackEnabled: cfg.FallbackEnabled,
		RetryAttempts:   cfg.RetryAttempts,
		RetryDelay:      parseDuration(cfg.RetryDelay, time.Second),
		MaxTotalTimeout: parseDuration(cfg.MaxTotalTimeout, 60*time.Second),
	}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
