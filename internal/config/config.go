package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// DatasetPath points at historical analysis records used for
	// distribution and summary endpoints. Empty disables them.
	DatasetPath string

	UpstreamURL      string
	UpstreamTimeout  time.Duration
	UpstreamMaxRetry time.Duration
}

const (
	DefaultPort             = "8080"
	DefaultUpstreamTimeout  = 25 * time.Second
	DefaultUpstreamMaxRetry = 45 * time.Second
)

// Load reads .env when present, then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() Config {
	return Config{
		Port:             envOr("PORT", DefaultPort),
		Environment:      os.Getenv("ENVIRONMENT"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		DatasetPath:      os.Getenv("DATASET_PATH"),
		UpstreamURL:      os.Getenv("UPSTREAM_URL"),
		UpstreamTimeout:  envSeconds("UPSTREAM_TIMEOUT_SEC", DefaultUpstreamTimeout),
		UpstreamMaxRetry: envSeconds("UPSTREAM_MAX_RETRY_SEC", DefaultUpstreamMaxRetry),
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envSeconds(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}
