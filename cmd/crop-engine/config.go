// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/crop-engine/internal/catalog"
	"github.com/pdiddy/crop-engine/internal/observability"
	"github.com/pdiddy/crop-engine/internal/secrets"
	"github.com/pdiddy/crop-engine/internal/store"
	"github.com/pdiddy/crop-engine/pkg/types"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.dir", "data")
	v.SetDefault("store.history_limit", 20)
	v.SetDefault("engine.workers", 1)
	v.SetDefault("catalog.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "crop-recommendations")
}

// configFrom builds and validates a Config from v, filling Kafka
// credentials from the loaded secrets.
func configFrom(v *viper.Viper, s secrets.Set) (types.Config, error) {
	cfg := types.Config{
		Store: types.StoreConfig{
			Dir:          v.GetString("store.dir"),
			HistoryLimit: v.GetInt("store.history_limit"),
		},
		Engine:  types.EngineConfig{Workers: v.GetInt("engine.workers")},
		Catalog: types.CatalogConfig{File: v.GetString("catalog.file")},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Server: types.ServerConfig{
			Addr:            v.GetString("server.addr"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Kafka: types.KafkaConfig{
			Enabled: v.GetBool("kafka.enabled"),
			Brokers: v.GetStringSlice("kafka.brokers"),
			Topic:   v.GetString("kafka.topic"),
		},
	}
	s.ApplyKafka(&cfg.Kafka)
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadConfig reads the process-wide viper configuration.
func loadConfig() (types.Config, error) {
	return configFrom(viper.GetViper(), loadedSecrets)
}

// openStore opens the SQLite store and makes sure a catalog is present:
// catalog.file is imported when set, otherwise an empty catalog is seeded
// with the built-in crops.
func openStore(ctx context.Context, cfg types.Config, logger *slog.Logger) (*store.Store, error) {
	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	if cfg.Catalog.File != "" {
		crops, err := catalog.LoadCrops(cfg.Catalog.File)
		if err != nil {
			st.Close()
			return nil, err
		}
		if err := st.ImportCatalog(ctx, crops); err != nil {
			st.Close()
			return nil, err
		}
		logger.Info("catalog imported", "file", cfg.Catalog.File, "crops", len(crops))
		return st, nil
	}

	seeded, err := st.SeedCatalog(ctx, catalog.Default())
	if err != nil {
		st.Close()
		return nil, err
	}
	if seeded {
		logger.Info("catalog seeded with built-in crops", "crops", len(catalog.Default()))
	}
	return st, nil
}

func newLogger(w io.Writer, cfg types.Config) *slog.Logger {
	return observability.NewLogger(w, cfg.Log)
}
