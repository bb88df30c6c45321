package orchestrator

import (
	"time"

	"qametrics-assistant/internal/assistant"
	"qametrics-assistant/internal/assistant/agent"
	"qametrics-assistant/internal/assistant/classifier"
	"qametrics-assistant/internal/assistant/contextstore"
	"qametrics-assistant/internal/assistant/memory"
	"qametrics-assistant/pkg/cache"
	"qametrics-assistant/pkg/llmprovider"
	pkgLog "qametrics-assistant/pkg/log"
	"qametrics-assistant/pkg/qase"
)

// MetricsFactory builds a metrics API client from a per-user provider
// token.
type MetricsFactory func(providerToken string) qase.API

// Config tunes the orchestrator's session and cache behavior. Zero
// values fall back to the package defaults.
type Config struct {
	MemoryWindow    int
	SessionCapacity int
	SessionTTL      time.Duration
	ContextCapacity int
	AgentCapacity   int
	AgentTTL        time.Duration
	AgentMaxSteps   int
	ToolCacheTTL    time.Duration
}

func (c Config) withDefaults() Config {
	if c.MemoryWindow <= 0 {
		c.MemoryWindow = DefaultMemoryWindow
	}
	if c.SessionCapacity <= 0 {
		c.SessionCapacity = DefaultSessionCapacity
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.ContextCapacity <= 0 {
		c.ContextCapacity = DefaultContextCapacity
	}
	if c.AgentCapacity <= 0 {
		c.AgentCapacity = DefaultAgentCapacity
	}
	if c.AgentTTL <= 0 {
		c.AgentTTL = DefaultAgentTTL
	}
	if c.AgentMaxSteps <= 0 {
		c.AgentMaxSteps = DefaultAgentMaxSteps
	}
	if c.ToolCacheTTL <= 0 {
		c.ToolCacheTTL = DefaultToolCacheTTL
	}
	return c
}

type implUseCase struct {
	classifier classifier.Classifier
	llmFactory llmprovider.Factory
	metrics    MetricsFactory
	cacheStore cache.Store

	sessions *memory.Store
	contexts *contextstore.Store
	agents   *agent.Cache

	cfg Config
	l   pkgLog.Logger
}

var _ assistant.UseCase = (*implUseCase)(nil)

// New creates the orchestrator use case.
func New(cls classifier.Classifier, llmFactory llmprovider.Factory, metrics MetricsFactory, cacheStore cache.Store, cfg Config, l pkgLog.Logger) assistant.UseCase {
	cfg = cfg.withDefaults()
	return &implUseCase{
		classifier: cls,
		llmFactory: llmFactory,
		metrics:    metrics,
		cacheStore: cacheStore,
		sessions:   memory.NewStore(cfg.SessionCapacity, cfg.SessionTTL, cfg.MemoryWindow),
		contexts:   contextstore.New(cfg.ContextCapacity),
		agents:     agent.NewCache(cfg.AgentCapacity, cfg.AgentTTL),
		cfg:        cfg,
		l:          l,
	}
}
