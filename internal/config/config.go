package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the site server.
type Config struct {
	GeminiAPIKey string
	Port         string
	GinMode      string
	LogLevel     string
	Env          string

	ViewTTL            time.Duration
	ViewCookieHashKey  []byte
	ViewCookieBlockKey []byte
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c Config) SecureCookies() bool {
	return strings.EqualFold(c.Env, "prod")
}

// Load reads an optional .env file and then the process environment. A
// missing Gemini key is not an error; the chat bridge runs in degraded mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		GeminiAPIKey: env("GEMINI_API_KEY", env("API_KEY", "")),
		Port:         env("PORT", "8080"),
		GinMode:      env("GIN_MODE", "release"),
		LogLevel:     env("LOG_LEVEL", "info"),
		Env:          env("APP_ENV", "dev"),
	}

	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("invalid GIN_MODE %q", cfg.GinMode)
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}

	ttl, err := time.ParseDuration(env("VIEW_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid VIEW_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, errors.New("invalid VIEW_TTL: must be positive")
	}
	cfg.ViewTTL = ttl

	if cfg.ViewCookieHashKey, err = keyFromEnv(env("VIEW_COOKIE_HASH_KEY", ""), 32, 64); err != nil {
		return nil, fmt.Errorf("VIEW_COOKIE_HASH_KEY: %w", err)
	}
	if cfg.ViewCookieBlockKey, err = keyFromEnv(env("VIEW_COOKIE_BLOCK_KEY", ""), 32, 16, 24); err != nil {
		return nil, fmt.Errorf("VIEW_COOKIE_BLOCK_KEY: %w", err)
	}
	return cfg, nil
}

// keyFromEnv returns the configured key, or a random per-process key of size
// bytes when unset. A configured key must be size bytes or one of the extra lengths.
func keyFromEnv(v string, size int, extra ...int) ([]byte, error) {
	if v != "" {
		if len(v) == size || slices.Contains(extra, len(v)) {
			return []byte(v), nil
		}
		return nil, fmt.Errorf("unsupported key length %d", len(v))
	}
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}
