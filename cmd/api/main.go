package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wardenlabs/scambait/internal/api/router"
	appconfig "github.com/wardenlabs/scambait/internal/config"
	"github.com/wardenlabs/scambait/internal/engagement"
	"github.com/wardenlabs/scambait/internal/llm"
	"github.com/wardenlabs/scambait/internal/observability/metrics"
	"github.com/wardenlabs/scambait/internal/report"
	"github.com/wardenlabs/scambait/pkg/logging"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting scambait API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.OpenRouterAPIKey == "" {
		logger.Warn("OPENROUTER_API_KEY not set, model-backed stages will rely on deterministic fallbacks")
	}

	// Provider stack: OpenRouter primary, Gemini secondary when configured.
	var provider llm.Client = llm.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.OpenRouterModel,
		llm.WithCallTimeout(cfg.LLMCallTimeout))
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to initialize gemini fallback provider", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		provider = llm.NewFallbackClient(provider, gemini, logger)
	}

	// Observability
	pipelineMetrics := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)

	// Intelligence reporting (optional)
	serviceOpts := []engagement.ServiceOption{
		engagement.WithPipelineTimeout(cfg.PipelineTimeout),
	}
	var dispatcher *report.Dispatcher
	if cfg.CallbackURL != "" {
		reportClient, err := report.NewClient(cfg.CallbackURL, logger, report.WithTimeout(cfg.CallbackTimeout))
		if err != nil {
			logger.Error("failed to initialize report client", "error", err)
			os.Exit(1)
		}
		dispatcher = report.NewDispatcher(reportClient, pipelineMetrics, logger,
			report.WithWorkerCount(cfg.CallbackWorkerCount),
			report.WithQueueSize(cfg.CallbackQueueSize),
			report.WithDeliveryTimeout(cfg.CallbackTimeout),
		)
		serviceOpts = append(serviceOpts, engagement.WithReporter(dispatcher))
	} else {
		logger.Warn("CALLBACK_URL not set, extracted intelligence will not be relayed")
	}

	// Pipeline
	detector := engagement.NewDetector(provider, pipelineMetrics, logger)
	extractor := engagement.NewExtractor(provider, pipelineMetrics, logger)
	responder := engagement.NewResponder(provider, pipelineMetrics, logger)
	service := engagement.NewService(detector, extractor, responder, pipelineMetrics, logger, serviceOpts...)
	handler := engagement.NewHandler(service, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:            logger,
		EngagementHandler: handler,
		APIKey:            cfg.APIKey,
		MetricsHandler:    promhttp.Handler(),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if dispatcher != nil {
		if err := dispatcher.Shutdown(ctx); err != nil {
			logger.Error("report dispatcher did not drain in time", "error", err)
		}
	}

	logger.Info("server stopped")
}
