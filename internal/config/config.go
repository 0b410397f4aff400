package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ringwatch/ringwatch/internal/ingest"
	"github.com/ringwatch/ringwatch/internal/model"
)

// Config is the root configuration structure for ringwatch.
type Config struct {
	General  GeneralConfig  `yaml:"general"`
	Analysis model.Settings `yaml:"analysis"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Storage  StorageConfig  `yaml:"storage"`
	API      APIConfig      `yaml:"api"`
}

type GeneralConfig struct {
	InstanceID string `yaml:"instance_id"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"` // json|text
}

type IngestConfig struct {
	Kafka      ingest.KafkaConfig `yaml:"kafka"`
	BufferSize int                `yaml:"buffer_size"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // sqlite|postgres
	DSN     string `yaml:"dsn"`
}

type APIConfig struct {
	Listen         string `yaml:"listen"`
	AllowedOrigins string `yaml:"allowed_origins"`
}

// Load reads and parses a YAML configuration file. Environment variables in
// the file body are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{Analysis: model.DefaultSettings()}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Analysis: model.DefaultSettings()}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.General.InstanceID == "" {
		cfg.General.InstanceID = "ringwatch-1"
	}
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = "info"
	}
	if cfg.General.LogFormat == "" {
		cfg.General.LogFormat = "json"
	}
	if len(cfg.Ingest.Kafka.Brokers) == 0 {
		cfg.Ingest.Kafka.Brokers = []string{"localhost:9092"}
	}
	if cfg.Ingest.Kafka.Topic == "" {
		cfg.Ingest.Kafka.Topic = "ringwatch.events"
	}
	if cfg.Ingest.Kafka.GroupID == "" {
		cfg.Ingest.Kafka.GroupID = "ringwatch"
	}
	if cfg.Ingest.BufferSize == 0 {
		cfg.Ingest.BufferSize = 100000
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sqlite"
	}
	if cfg.API.Listen == "" {
		cfg.API.Listen = ":8090"
	}
	cfg.Analysis.Normalize()
}
