package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
)

type Config struct {
	APIPort   string
	LogLevel  string
	LogFormat string

	HubVariant        string
	HubBaseURL        string
	HubAPIKey         string
	HubEndpointSuffix string
	HubTimeout        time.Duration

	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	BreakerEnabled      bool

	APIRateLimitRPS   float64
	APIRateLimitBurst int

	NATSURL     string
	NATSSubject string

	PaletteFile string
}

// LoadEnvFile loads key=value pairs from path into the process
// environment without overriding variables that are already set.
func LoadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := gotenv.Load(path); err != nil {
		slog.Debug("env file not loaded, using OS environment", "path", path, "error", err)
	}
}

func Load() Config {
	LoadEnvFile(mustEnv("ENV_FILE", ".env"))

	return Config{
		APIPort:   mustEnv("API_PORT", "8080"),
		LogLevel:  mustEnv("LOG_LEVEL", "info"),
		LogFormat: mustEnv("LOG_FORMAT", "json"),

		HubVariant:        mustEnv("HUB_VARIANT", "direct"),
		HubBaseURL:        mustEnv("HUB_BASE_URL", "https://api.cellstrathub.com/"),
		HubAPIKey:         mustEnv("HUB_API_KEY", ""),
		HubEndpointSuffix: mustEnv("HUB_ENDPOINT", ""),
		HubTimeout:        time.Duration(mustEnvInt("HUB_TIMEOUT_SECONDS", 0)) * time.Second,

		RetryMaxAttempts:    mustEnvInt("HUB_RETRY_MAX_ATTEMPTS", 1),
		RetryInitialBackoff: time.Duration(mustEnvInt("HUB_RETRY_INITIAL_BACKOFF_MS", 200)) * time.Millisecond,
		BreakerEnabled:      mustEnvBool("HUB_BREAKER_ENABLED", false),

		APIRateLimitRPS:   mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 5),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "predictions.completed"),

		PaletteFile: mustEnv("PRESENTER_PALETTE_FILE", ""),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
