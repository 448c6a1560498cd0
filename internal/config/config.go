package config

import (
	"os"
	"strings"
	"time"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// RedisConfig holds the live cache connection configuration
type RedisConfig struct {
	URL string
}

// HistoryConfig holds the historical store connection configuration
type HistoryConfig struct {
	DSN string
}

// ProviderConfig holds the timing provider configuration
type ProviderConfig struct {
	BaseURL      string
	FetchTimeout time.Duration
}

// PollerConfig holds the poll loop timings
type PollerConfig struct {
	PollInterval time.Duration
	IdleInterval time.Duration
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	History  HistoryConfig
	Provider ProviderConfig
	Poller   PollerConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("SERVER_ADDR", ":8000"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:8501")),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		History: HistoryConfig{
			DSN: getEnv("HISTORY_DSN", "postgres://f1:f1@localhost:5432/f1_data?sslmode=disable"),
		},
		Provider: ProviderConfig{
			BaseURL:      getEnv("PROVIDER_BASE_URL", "http://localhost:8081"),
			FetchTimeout: getDuration("PROVIDER_FETCH_TIMEOUT", 30*time.Second),
		},
		Poller: PollerConfig{
			PollInterval: getDuration("POLL_INTERVAL", 1*time.Second),
			IdleInterval: getDuration("IDLE_INTERVAL", 5*time.Minute),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses an environment variable as a duration, falling back on
// the default for missing or malformed values
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
