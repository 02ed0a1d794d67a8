// Package config reads the formkit CLI configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/untillpro/goutils/logger"
)

// Storage backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreBolt     = "bolt"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Store            string
	File             string
	BoltPath         string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisKey         string
	PostgresDSN      string
	LogLevel         string
	StrictDerivation bool
}

func Load() (Config, error) {
	cfg := Config{
		Store:         strings.ToLower(valueOrDefault("FORMKIT_STORE", StoreFile)),
		File:          valueOrDefault("FORMKIT_FILE", "forms.json"),
		BoltPath:      valueOrDefault("FORMKIT_BOLT_PATH", "forms.db"),
		RedisAddr:     valueOrDefault("FORMKIT_REDIS_ADDR", "localhost:6379"),
		RedisPassword: strings.TrimSpace(os.Getenv("FORMKIT_REDIS_PASSWORD")),
		RedisKey:      strings.TrimSpace(os.Getenv("FORMKIT_REDIS_KEY")),
		PostgresDSN:   strings.TrimSpace(os.Getenv("FORMKIT_POSTGRES_DSN")),
		LogLevel:      strings.ToLower(valueOrDefault("FORMKIT_LOG_LEVEL", "info")),
	}

	if raw := strings.TrimSpace(os.Getenv("FORMKIT_REDIS_DB")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FORMKIT_REDIS_DB: %w", err)
		}
		cfg.RedisDB = v
	}
	if raw := strings.TrimSpace(os.Getenv("FORMKIT_STRICT_DERIVATION")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FORMKIT_STRICT_DERIVATION: %w", err)
		}
		cfg.StrictDerivation = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the combination of settings, after flags have been applied
// on top of the environment.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreBolt, StoreRedis:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("FORMKIT_POSTGRES_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("invalid FORMKIT_STORE %q", c.Store)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps a level name to the logger level.
func ParseLogLevel(raw string) (logger.TLogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "none", "off":
		return logger.LogLevelNone, nil
	case "error":
		return logger.LogLevelError, nil
	case "warning", "warn":
		return logger.LogLevelWarning, nil
	case "", "info":
		return logger.LogLevelInfo, nil
	case "verbose", "debug":
		return logger.LogLevelVerbose, nil
	case "trace":
		return logger.LogLevelTrace, nil
	default:
		return logger.LogLevelInfo, fmt.Errorf("invalid FORMKIT_LOG_LEVEL %q", raw)
	}
}

func valueOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
