package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/config"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-sheet/internal/redis"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/document"
)

var (
	svc      sheet.Service
	closers  []func() error
	settings *config.Config
)

// setup loads the configuration and wires the orchestrator. Commands that do
// not touch the saved document skip it.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[annotationOffline] == "true" {
		return nil
	}

	// post-run hooks do not run after a failed command
	if err := teardown(cmd, nil); err != nil {
		slog.Warn("Failed to close previous storage", "error", err)
	}

	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded .env file")
	}

	overrides := map[string]string{
		"SHEET_STORAGE":      storageFlag,
		"SHEET_DOCUMENT_KEY": keyFlag,
		"SHEET_LOG_LEVEL":    logLevelFlag,
	}
	for name, value := range overrides {
		if value != "" {
			if err := os.Setenv(name, value); err != nil {
				return errors.Wrapf(err, "failed to set %s", name)
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	settings = cfg
	configureLogging(cfg)

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}

	svc, err = sheet.NewOrchestrator(&sheet.Config{
		Repository:  repo,
		Clock:       clock.New(),
		IDGenerator: idgen.NewUUID("log"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create orchestrator")
	}

	slog.Debug("Sheet ready", "storage", cfg.Storage, "key", cfg.Key())
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	var firstErr error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	closers = nil
	return firstErr
}

func configureLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.Level()}

	var handler slog.Handler
	if cfg.LogFormat == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func openRepository(cfg *config.Config) (document.Repository, error) {
	switch cfg.Storage {
	case config.StorageRedis:
		client, err := redis.NewClient(cfg.RedisAddr, &redis.Options{
			DB:       cfg.RedisDB,
			Password: cfg.RedisPassword,
			UseTLS:   cfg.RedisTLS,
		})
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create redis client")
		}
		closers = append(closers, client.Close)
		return document.NewRedisRepository(&document.RedisConfig{Client: client, Key: cfg.Key()})
	case config.StorageSQLite:
		repo, err := document.OpenSQLite(cfg.SQLitePath, cfg.Key())
		if err != nil {
			return nil, err
		}
		closers = append(closers, repo.Close)
		return repo, nil
	default:
		return document.NewInMemory(), nil
	}
}
