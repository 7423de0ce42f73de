package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/skilltree-advisor/internal/advisor"
	"github.com/jonathan/skilltree-advisor/internal/catalog"
	"github.com/jonathan/skilltree-advisor/internal/config"
	"github.com/jonathan/skilltree-advisor/internal/db"
	"github.com/jonathan/skilltree-advisor/internal/db/sqlite"
	"github.com/jonathan/skilltree-advisor/internal/logging"
)

// dataStore is what the commands need from either backend.
type dataStore interface {
	advisor.Store
	catalog.Writer
}

// app holds the resources shared by commands that touch storage.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  dataStore
	closer func()
}

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"database-url": "database-url",
	"sqlite-path":  "sqlite-path",
	"json":         "log.json",
	"debug":        "log.debug",
}

// loadConfig merges defaults, the config file, environment and changed flags.
func loadConfig(cmd *cobra.Command, extra map[string]string) (*config.Config, error) {
	v := viper.New()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	for name, key := range extra {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return config.Load(v, configFile)
}

// newApp loads configuration, builds the logger and opens the configured store.
func newApp(cmd *cobra.Command, extra map[string]string) (*app, error) {
	cfg, err := loadConfig(cmd, extra)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	store, closer, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, store: store, closer: closer}, nil
}

// Close releases the store and flushes the logger.
func (a *app) Close() {
	a.closer()
	_ = a.logger.Sync()
}

// openStore connects to PostgreSQL when a database URL is configured and
// falls back to the SQLite file otherwise. Both create missing tables.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (dataStore, func(), error) {
	if cfg.UsePostgres() {
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		logger.Debug("using postgres store")
		return pg, pg.Close, nil
	}

	lite, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("using sqlite store", zap.String("path", cfg.SQLitePath))
	return lite, func() {
		if err := lite.Close(); err != nil {
			logger.Warn("failed to close sqlite store", zap.Error(err))
		}
	}, nil
}
