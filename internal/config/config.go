// Package config reads the sheet settings from the environment
package config

import (
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/document"
)

// Storage backends
const (
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds every environment setting
type Config struct {
	Storage       string `env:"SHEET_STORAGE" envDefault:"sqlite"`
	DocumentKey   string `env:"SHEET_DOCUMENT_KEY" envDefault:"document"`
	RedisAddr     string `env:"SHEET_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"SHEET_REDIS_PASSWORD"`
	RedisDB       int    `env:"SHEET_REDIS_DB" envDefault:"0"`
	RedisTLS      bool   `env:"SHEET_REDIS_TLS" envDefault:"false"`
	SQLitePath    string `env:"SHEET_SQLITE_PATH" envDefault:"sheet.db"`
	LogLevel      string `env:"SHEET_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"SHEET_LOG_FORMAT" envDefault:"text"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses the given variables instead of the process environment.
// A nil map reads the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings for the chosen backend
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("SHEET_STORAGE", c.Storage, []string{StorageRedis, StorageSQLite, StorageMemory}, vb)
	errors.ValidateRequired("SHEET_DOCUMENT_KEY", c.DocumentKey, vb)
	errors.ValidateEnum("SHEET_LOG_FORMAT", c.LogFormat, []string{LogFormatText, LogFormatJSON}, vb)
	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.InvalidField("SHEET_LOG_LEVEL", "must be debug, info, warn or error")
	}

	switch c.Storage {
	case StorageRedis:
		errors.ValidateRequired("SHEET_REDIS_ADDR", c.RedisAddr, vb)
		errors.ValidateRange("SHEET_REDIS_DB", c.RedisDB, 0, 15, vb)
	case StorageSQLite:
		errors.ValidateRequired("SHEET_SQLITE_PATH", c.SQLitePath, vb)
	}

	return vb.Build()
}

// Level returns the slog level for LogLevel
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(text string) (slog.Level, bool) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(text))); err != nil {
		return slog.LevelInfo, false
	}
	return level, true
}

// Key returns the document key, defaulting when unset
func (c *Config) Key() string {
	if strings.TrimSpace(c.DocumentKey) == "" {
		return document.DefaultKey
	}
	return c.DocumentKey
}
