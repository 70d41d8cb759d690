package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Audit    AuditConfig    `yaml:"audit"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

type SourceConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

type AuditConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type DefaultsConfig struct {
	Namespace string `yaml:"namespace"`
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Source.Type != "mysql" {
		return errors.New("source.type must be mysql")
	}
	if c.Source.DSN == "" {
		return errors.New("source.dsn is required")
	}
	if c.Audit.Enabled {
		if len(c.Audit.Brokers) == 0 {
			return errors.New("audit.brokers is required when audit is enabled")
		}
		if c.Audit.Topic == "" {
			return errors.New("audit.topic is required when audit is enabled")
		}
	}
	return nil
}
