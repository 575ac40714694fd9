package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/myrefera/script-tailor-go/internal/constants"
)

type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	Supadata   SupadataConfig
	Redis      RedisConfig
	Transcribe TranscribeConfig
	Tailoring  TailoringConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type GeminiConfig struct {
	APIKey         string
	Model          string
	EnableFallback bool
}

type SupadataConfig struct {
	APIKey  string
	BaseURL string
}

// RedisConfig selects the cache backing. An empty Host falls back to the
// in-process memory store.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type TranscribeConfig struct {
	MaxRetries int
	CacheTTL   time.Duration
}

type TailoringConfig struct {
	RequestTimeout time.Duration
	MaxTokens      int
	Temperature    float64
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8000),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseCommaSeparated(getEnv("CORS_ALLOWED_ORIGINS", "myrefera.com,*.myrefera.com")),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EnableFallback: getEnvBool("GEMINI_ENABLE_FALLBACK", true),
		},
		Supadata: SupadataConfig{
			APIKey:  getEnv("SUPADATA_API_KEY", ""),
			BaseURL: getEnv("SUPADATA_BASE_URL", constants.SupadataConfig.BaseURL),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Transcribe: TranscribeConfig{
			MaxRetries: getEnvInt("TRANSCRIBE_MAX_RETRIES", constants.RetryConfig.MaxAttempts),
			CacheTTL:   time.Duration(getEnvInt("TRANSCRIBE_CACHE_TTL_SECONDS", int(constants.CacheTTL.Transcript.Seconds()))) * time.Second,
		},
		Tailoring: TailoringConfig{
			RequestTimeout: time.Duration(getEnvInt("AI_REQUEST_TIMEOUT_SECONDS", int(constants.AIConfig.RequestTimeout.Seconds()))) * time.Second,
			MaxTokens:      getEnvInt("AI_MAX_TOKENS", constants.AIConfig.MaxTokens),
			Temperature:    getEnvFloat("AI_TEMPERATURE", constants.AIConfig.Temperature),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Supadata.APIKey == "" {
		return fmt.Errorf("SUPADATA_API_KEY is required")
	}
	if c.Gemini.EnableFallback && c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when GEMINI_ENABLE_FALLBACK is set")
	}
	if c.Transcribe.MaxRetries < 1 {
		return fmt.Errorf("TRANSCRIBE_MAX_RETRIES must be at least 1")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be a valid port number")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
