package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Request limits
	MaxQuestions int
	MaxBodyBytes int64

	// Rendering
	DefaultLocale string
	// CatalogPath 为空时使用内置的预设目录。
	CatalogPath string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		MaxQuestions: envInt("MAX_QUESTIONS", 500),
		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 5242880), // 5MB

		DefaultLocale: envOr("DEFAULT_LOCALE", "en"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
	}

	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 500
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 5242880
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
