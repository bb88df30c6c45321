package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qametrics-assistant/config"
	_ "qametrics-assistant/docs" // Swagger docs
	"qametrics-assistant/internal/assistant/classifier"
	assistantHTTP "qametrics-assistant/internal/assistant/delivery/http"
	"qametrics-assistant/internal/assistant/orchestrator"
	"qametrics-assistant/internal/httpserver"
	"qametrics-assistant/pkg/cache"
	"qametrics-assistant/pkg/llmprovider"
	"qametrics-assistant/pkg/log"
	"qametrics-assistant/pkg/qase"
)

// @title       QA Metrics Assistant API
// @description Conversational assistant answering natural-language questions about QA/test metrics.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting QA Metrics Assistant...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Metrics provider: %s", cfg.Qase.BaseURL)

	// 3. LLM provider factory
	llmFactory := llmprovider.NewFactory(&cfg.LLM, logger)

	// 4. Metrics client factory (one client per provider token)
	metrics := func(providerToken string) qase.API {
		client, cErr := qase.NewClient(qase.Config{
			BaseURL:           cfg.Qase.BaseURL,
			Token:             providerToken,
			MaxRetries:        cfg.Qase.MaxRetries,
			RetryDelay:        parseDuration(cfg.Qase.RetryDelay, time.Second),
			RequestsPerSecond: cfg.Qase.RequestsPerSecond,
			Burst:             cfg.Qase.Burst,
		})
		if cErr != nil {
			logger.Errorf(ctx, "Failed to build metrics client: %v", cErr)
			return nil
		}
		return client
	}

	// 5. Cache store
	cacheStore := cache.NewLRUStore(cfg.Cache.Capacity,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second)

	// 6. Intent classifier
	cls := classifier.New(llmFactory, logger)

	// 7. Orchestrator
	uc := orchestrator.New(cls, llmFactory, metrics, cacheStore, orchestrator.Config{
		MemoryWindow:    cfg.Assistant.MemoryWindow,
		SessionCapacity: cfg.Assistant.SessionCapacity,
		SessionTTL:      parseDuration(cfg.Assistant.SessionTTL, 30*time.Minute),
		AgentCapacity:   cfg.Assistant.AgentCapacity,
		AgentTTL:        parseDuration(cfg.Assistant.AgentTTL, 30*time.Minute),
		AgentMaxSteps:   cfg.Assistant.AgentMaxSteps,
	}, logger)

	// 8. Delivery
	handler := assistantHTTP.New(logger, uc)

	// 9. HTTP server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:           logger,
		Port:             cfg.HTTPServer.Port,
		Mode:             cfg.HTTPServer.Mode,
		Environment:      cfg.Environment.Name,
		AssistantHandler: handler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 10. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
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
