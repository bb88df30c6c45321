package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig

	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// QA metrics provider
	Qase QaseConfig

	// Shared data cache
	Cache CacheConfig

	// Conversational assistant core
	Assistant AssistantConfig

	// LLM provider abstraction
	LLM LLMConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// QaseConfig configures the metrics provider client. The API token is
// supplied per request by the caller, never from config.
type QaseConfig struct {
	BaseURL           string
	MaxRetries        int
	RetryDelay        string
	RequestsPerSecond float64
	Burst             int
}

// CacheConfig configures the shared TTL cache for provider data.
type CacheConfig struct {
	Capacity   int
	TTLSeconds int
}

// AssistantConfig configures session and agent behavior.
type AssistantConfig struct {
	MemoryWindow    int
	SessionCapacity int
	SessionTTL      string
	AgentCapacity   int
	AgentTTL        string
	AgentMaxSteps   int
}

// LLMConfig holds configuration for the LLM provider abstraction layer.
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"`
}

// ProviderConfig holds configuration for a single LLM provider.
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.Qase.BaseURL = viper.GetString("qase.base_url")
	cfg.Qase.MaxRetries = viper.GetInt("qase.max_retries")
	cfg.Qase.RetryDelay = viper.GetString("qase.retry_delay")
	cfg.Qase.RequestsPerSecond = viper.GetFloat64("qase.requests_per_second")
	cfg.Qase.Burst = viper.GetInt("qase.burst")

	cfg.Cache.Capacity = viper.GetInt("cache.capacity")
	cfg.Cache.TTLSeconds = viper.GetInt("cache.ttl_seconds")

	cfg.Assistant.MemoryWindow = viper.GetInt("assistant.memory_window")
	cfg.Assistant.SessionCapacity = viper.GetInt("assistant.session_capacity")
	cfg.Assistant.SessionTTL = viper.GetString("assistant.session_ttl")
	cfg.Assistant.AgentCapacity = viper.GetInt("assistant.agent_capacity")
	cfg.Assistant.AgentTTL = viper.GetString("assistant.agent_ttl")
	cfg.Assistant.AgentMaxSteps = viper.GetInt("assistant.agent_max_steps")

	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")

	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:     getStringFromMap(providerMap, "name"),
						Enabled:  getBoolFromMap(providerMap, "enabled"),
						Priority: getIntFromMap(providerMap, "priority"),
						APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL:  getStringFromMap(providerMap, "base_url"),
						Model:    getStringFromMap(providerMap, "model"),
						Timeout:  getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	if len(cfg.LLM.Providers) == 0 {
		return nil, fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("qase.base_url", "https://api.qase.io/v1")
	viper.SetDefault("qase.max_retries", 3)
	viper.SetDefault("qase.retry_delay", "500ms")
	viper.SetDefault("qase.requests_per_second", 5)
	viper.SetDefault("qase.burst", 10)

	viper.SetDefault("cache.capacity", 1024)
	viper.SetDefault("cache.ttl_seconds", 300)

	viper.SetDefault("assistant.memory_window", 20)
	viper.SetDefault("assistant.session_capacity", 512)
	viper.SetDefault("assistant.session_ttl", "30m")
	viper.SetDefault("assistant.agent_capacity", 256)
	viper.SetDefault("assistant.agent_ttl", "30m")
	viper.SetDefault("assistant.agent_max_steps", 15)

	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 3)
	viper.SetDefault("llm.retry_delay", "1s")
	viper.SetDefault("llm.max_total_timeout", "60s")
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
