// Package config loads environment-driven application settings.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider identifies the text-generation back end.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Generation
	LLMProvider     Provider
	OllamaURL       string
	LLMModel        string
	Temperature     float64
	MaxTokens       int
	LLMTimeout      time.Duration
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Retrieval
	MaxContextChars int
	GazetteerFile   string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables with defaults
// matching the reference deployment.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "unicorns"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "graph"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     Provider(strings.ToLower(getEnv("LLM_PROVIDER", "ollama"))),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
		LLMModel:        getEnv("OLLAMA_MODEL", "mistral"),
		Temperature:     getEnvFloat("OLLAMA_TEMPERATURE", 0.3),
		MaxTokens:       getEnvInt("OLLAMA_MAX_TOKENS", 500),
		LLMTimeout:      time.Duration(getEnvInt("OLLAMA_TIMEOUT_SECONDS", 60)) * time.Second,
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		MaxContextChars: getEnvInt("RAG_MAX_CONTEXT_CHARS", 8000),
		GazetteerFile:   getEnv("UNIGRAPH_GAZETTEER_FILE", ""),

		LogFile:  getEnv("UNIGRAPH_LOG_FILE", "/tmp/unigraph.log"),
		LogLevel: parseLogLevel(getEnv("UNIGRAPH_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
