package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string
	LogLevel   string
	LogFormat  string

	// AnalysisModel is "rich" or "simple"
	AnalysisModel string

	// Database configuration
	DatabaseEnabled  bool
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPassword string
	RedisPort     string

	// AI configuration
	AI AIConfig

	// Webhooks notified of stored readings
	Webhook WebhookConfig
}

// WebhookConfig lists the endpoints told about new readings
type WebhookConfig struct {
	URLs       []string
	AuthHeader string
	AuthValue  string
	Retries    int
	RetryDelay time.Duration
}

// AIConfig selects and configures the AI provider
type AIConfig struct {
	Enabled  bool
	Provider string // "gemini" or "openai"

	GeminiAPIKey           string
	GeminiModel            string
	GeminiTTSModel         string
	GeminiTTSFallbackModel string
	GeminiTTSVoice         string

	// OpenAI-compatible endpoint
	Endpoint string
	APIKey   string
	Model    string

	Temperature float64

	CacheTTL     time.Duration
	LiveCooldown time.Duration
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServerPort:    getEnvOrDefault("SERVER_PORT", "8080"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "json"),
		AnalysisModel: strings.ToLower(getEnvOrDefault("ANALYSIS_MODEL", "rich")),

		// Database configuration
		DatabaseEnabled:  getEnvOrDefault("DB_ENABLED", "false") == "true",
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "bazi"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "bazi"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", ""),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		AI: AIConfig{
			Enabled:  getEnvOrDefault("AI_ENABLED", "false") == "true",
			Provider: strings.ToLower(getEnvOrDefault("AI_PROVIDER", "gemini")),

			GeminiAPIKey:           getEnvOrDefault("GEMINI_API_KEY", ""),
			GeminiModel:            getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
			GeminiTTSModel:         getEnvOrDefault("GEMINI_TTS_MODEL", "gemini-2.5-flash-preview-tts"),
			GeminiTTSFallbackModel: getEnvOrDefault("GEMINI_TTS_FALLBACK_MODEL", "gemini-2.5-pro-preview-tts"),
			GeminiTTSVoice:         getEnvOrDefault("GEMINI_TTS_VOICE", "Kore"),

			Endpoint: getEnvOrDefault("LLM_ENDPOINT", "https://api.openai.com/v1"),
			APIKey:   getEnvOrDefault("LLM_API_KEY", ""),
			Model:    getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),

			Temperature: getEnvFloat("AI_TEMPERATURE", 0.7),

			CacheTTL:     time.Duration(getEnvInt("AI_CACHE_TTL_MINUTES", 60)) * time.Minute,
			LiveCooldown: time.Duration(getEnvInt("LIVE_COOLDOWN_SECONDS", 3)) * time.Second,
		},

		Webhook: WebhookConfig{
			URLs:       splitList(os.Getenv("WEBHOOK_URLS")),
			AuthHeader: getEnvOrDefault("WEBHOOK_AUTH_HEADER", ""),
			AuthValue:  getEnvOrDefault("WEBHOOK_AUTH_VALUE", ""),
			Retries:    getEnvInt("WEBHOOK_RETRIES", 3),
			RetryDelay: time.Duration(getEnvInt("WEBHOOK_RETRY_DELAY_SECONDS", 2)) * time.Second,
		},
	}
}

// Validate reports settings that cannot work together
func (c *Config) Validate() error {
	switch c.AnalysisModel {
	case "rich", "simple":
	default:
		return fmt.Errorf("ANALYSIS_MODEL must be rich or simple, got %q", c.AnalysisModel)
	}
	if !c.AI.Enabled {
		return nil
	}
	switch c.AI.Provider {
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
		}
	case "openai":
		if c.AI.Endpoint == "" {
			return fmt.Errorf("LLM_ENDPOINT is required when AI_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("AI_PROVIDER must be gemini or openai, got %q", c.AI.Provider)
	}
	return nil
}

// DSN is the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.DatabaseHost, c.DatabasePort, c.DatabaseUser, c.DatabasePassword, c.DatabaseName)
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// splitList splits a comma separated value, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
