// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, catalog and chat.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration

	CatalogFile    string
	RecommendLimit int
	RelatedLimit   int
	MaxCartQty     int

	ChatDelayMin    time.Duration
	ChatDelayJitter time.Duration
	ChatRatePerSec  float64
	ChatRateBurst   int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		RequestTimeout:  durenvs("REQUEST_TIMEOUT", 30),
		CatalogFile:     getenv("CATALOG_FILE", ""),
		RecommendLimit:  atoienv("RECOMMEND_LIMIT", 4),
		RelatedLimit:    atoienv("RELATED_LIMIT", 4),
		MaxCartQty:      atoienv("MAX_CART_QUANTITY", 99),
		ChatDelayMin:    durenvms("CHAT_DELAY_MIN_MS", 800),
		ChatDelayJitter: durenvms("CHAT_DELAY_JITTER_MS", 600),
		ChatRatePerSec:  floatenv("CHAT_RATE_PER_SEC", 5),
		ChatRateBurst:   atoienv("CHAT_RATE_BURST", 10),
	}
}
