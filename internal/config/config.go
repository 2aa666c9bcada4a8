// Package config centralizes process configuration, built once in main and
// passed by reference to the engine. This avoids the original Python
// service's reliance on environment variables read ad hoc at module load.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the immutable, process-wide configuration.
type Config struct {
	// ValueProviderImpl selects which DataFeed implementation main wires up:
	// "fixed", "random", or the live ccxt-style engine (default).
	ValueProviderImpl string
	// Port is the HTTP listen port.
	Port int
	// Network selects the feed catalog filename ("prod" or "local-test").
	Network string
	// MedianDecay is LAMBDA in the weighted-median formula, per millisecond.
	MedianDecay float64
	// TradesHistorySize is read from TRADES_HISTORY_SIZE and logged at
	// engine startup; the adapters' in-memory trade buffers are not bounded
	// by it.
	TradesHistorySize int
	// LogLevel controls the verbosity of internal/logger.
	LogLevel string
	// FeedCatalogDir is the directory containing feeds.json / test-feeds.json.
	FeedCatalogDir string
}

const (
	defaultPort              = 3101
	defaultMedianDecay       = 5e-5
	defaultTradesHistorySize = 1000
)

// Load builds a Config from an optional .env file (if present) and the
// process environment, applying the documented defaults.
func Load() *Config {
	// Loading .env is best-effort: most deployments set real env vars and
	// have no .env file at all.
	_ = godotenv.Load()

	cfg := &Config{
		ValueProviderImpl: getEnv("VALUE_PROVIDER_IMPL", "ccxt"),
		Port:              getEnvInt("VALUE_PROVIDER_CLIENT_PORT", defaultPort),
		Network:           getEnv("NETWORK", "prod"),
		MedianDecay:       getEnvFloat("MEDIAN_DECAY", defaultMedianDecay),
		TradesHistorySize: getEnvInt("TRADES_HISTORY_SIZE", defaultTradesHistorySize),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		FeedCatalogDir:    getEnv("FEED_CATALOG_DIR", "config"),
	}
	return cfg
}

// CatalogFilename returns the feed catalog filename for the configured
// network, matching the original's test-feeds.json/feeds.json switch.
func (c *Config) CatalogFilename() string {
	if c.Network == "local-test" {
		return "test-feeds.json"
	}
	return "feeds.json"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
