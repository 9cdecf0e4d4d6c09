package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/config"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.LoadFrom(map[string]string{})
	s.Require().NoError(err)
	s.Equal(config.StorageSQLite, cfg.Storage)
	s.Equal("sheet.db", cfg.SQLitePath)
	s.Equal("document", cfg.Key())
	s.Equal(slog.LevelInfo, cfg.Level())
	s.Equal(config.LogFormatText, cfg.LogFormat)
}

func (s *ConfigTestSuite) TestOverrides() {
	cfg, err := config.LoadFrom(map[string]string{
		"SHEET_STORAGE":      " Redis ",
		"SHEET_REDIS_ADDR":   "cache:6380",
		"SHEET_REDIS_DB":     "2",
		"SHEET_DOCUMENT_KEY": "anais",
		"SHEET_LOG_LEVEL":    "debug",
		"SHEET_LOG_FORMAT":   "JSON",
	})
	s.Require().NoError(err)
	s.Equal(config.StorageRedis, cfg.Storage)
	s.Equal("cache:6380", cfg.RedisAddr)
	s.Equal(2, cfg.RedisDB)
	s.Equal("anais", cfg.Key())
	s.Equal(slog.LevelDebug, cfg.Level())
	s.Equal(config.LogFormatJSON, cfg.LogFormat)
}

func (s *ConfigTestSuite) TestInvalid() {
	testCases := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{name: "unknown storage", env: map[string]string{"SHEET_STORAGE": "postgres"}, field: "SHEET_STORAGE"},
		{name: "bad level", env: map[string]string{"SHEET_LOG_LEVEL": "loud"}, field: "SHEET_LOG_LEVEL"},
		{name: "bad format", env: map[string]string{"SHEET_LOG_FORMAT": "xml"}, field: "SHEET_LOG_FORMAT"},
		{
			name:  "redis db out of range",
			env:   map[string]string{"SHEET_STORAGE": "redis", "SHEET_REDIS_DB": "20"},
			field: "SHEET_REDIS_DB",
		},
		{
			name:  "empty sqlite path",
			env:   map[string]string{"SHEET_SQLITE_PATH": " "},
			field: "SHEET_SQLITE_PATH",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := config.LoadFrom(tc.env)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			validationErrors := errors.GetMeta(err)["validation_errors"].(map[string][]string)
			s.Contains(validationErrors, tc.field)
		})
	}
}

func (s *ConfigTestSuite) TestUnparseableValue() {
	_, err := config.LoadFrom(map[string]string{"SHEET_REDIS_DB": "two"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestMemoryNeedsNothingElse() {
	cfg, err := config.LoadFrom(map[string]string{"SHEET_STORAGE": "memory", "SHEET_SQLITE_PATH": ""})
	s.Require().NoError(err)
	s.Equal(config.StorageMemory, cfg.Storage)
}
