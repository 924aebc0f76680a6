package types

import (
	"errors"
	"fmt"
	"time"
)

// StoreConfig holds settings for the SQLite recommendation store.
type StoreConfig struct {
	// Dir is the directory holding crop-engine.db and export files.
	Dir string `json:"dir" yaml:"dir"`

	// HistoryLimit is the default number of batches returned by history
	// queries (default 20).
	HistoryLimit int `json:"history_limit" yaml:"history_limit"`
}

// EngineConfig holds settings for the ranking engine.
type EngineConfig struct {
	// Workers bounds concurrent crop scoring within one run. Values <= 1
	// score sequentially.
	Workers int `json:"workers" yaml:"workers"`
}

// CatalogConfig selects the crop catalog source.
type CatalogConfig struct {
	// File is an optional YAML catalog imported on startup. Empty keeps
	// the stored catalog, seeded with the built-in crops when empty.
	File string `json:"file" yaml:"file"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// KafkaConfig holds settings for publishing recommendation batches.
type KafkaConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	Brokers []string `json:"brokers" yaml:"brokers"`
	Topic   string   `json:"topic" yaml:"topic"`

	// Username and Password enable SASL/PLAIN when both are set. They are
	// normally filled from the secrets directory, not the config file.
	Username string `json:"-" yaml:"-"`
	Password string `json:"-" yaml:"-"`
}

// Config groups all crop-engine settings.
type Config struct {
	Store   StoreConfig   `json:"store" yaml:"store"`
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Kafka   KafkaConfig   `json:"kafka" yaml:"kafka"`
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Store.Dir == "" {
		return errors.New("store.dir is required")
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must be >= 0, got %d", c.Engine.Workers)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return errors.New("kafka.enabled is true but kafka.brokers is empty")
		}
		if c.Kafka.Topic == "" {
			return errors.New("kafka.enabled is true but kafka.topic is empty")
		}
	}
	return nil
}
