package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Shared secret expected in the x-api-key header.
	APIKey string

	// OpenRouter (primary text-generation provider)
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string

	// Gemini (secondary provider, optional)
	GeminiAPIKey string
	GeminiModel  string

	// Pipeline budget for the combined extract+respond invocation.
	PipelineTimeout time.Duration
	LLMCallTimeout  time.Duration

	// Intelligence reporting callback
	CallbackURL         string
	CallbackTimeout     time.Duration
	CallbackWorkerCount int
	CallbackQueueSize   int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIKey: getEnv("API_KEY", "default_secret_key"),

		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "mistralai/mistral-7b-instruct"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		PipelineTimeout: getEnvAsDuration("PIPELINE_TIMEOUT", 8*time.Second),
		LLMCallTimeout:  getEnvAsDuration("LLM_CALL_TIMEOUT", 30*time.Second),

		CallbackURL:         getEnv("CALLBACK_URL", ""),
		CallbackTimeout:     getEnvAsDuration("CALLBACK_TIMEOUT", 10*time.Second),
		CallbackWorkerCount: getEnvAsInt("CALLBACK_WORKER_COUNT", 2),
		CallbackQueueSize:   getEnvAsInt("CALLBACK_QUEUE_SIZE", 64),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
