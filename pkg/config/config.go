package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultEndpoint is the public Pure1 REST endpoint.
const DefaultEndpoint = "https://api.pure1.purestorage.com"

// Config represents the inventory builder configuration file.
type Config struct {
	Pure1       Pure1Config     `yaml:"pure1"`
	ArrayFilter string          `yaml:"array_filter"`
	TagFilter   *TagFilter      `yaml:"tag_filter"`
	KeyedGroups []KeyedGroup    `yaml:"keyed_groups"`
	Strict      bool            `yaml:"strict"`
	Scheduler   SchedulerConfig `yaml:"scheduler"`
	Logging     LoggingConfig   `yaml:"logging"`
	Output      OutputConfig    `yaml:"output"`
}

// Pure1Config stores API credentials and endpoint information.
type Pure1Config struct {
	AppID              string `yaml:"app_id"`
	PrivateKeyFile     string `yaml:"private_key_file"`
	PrivateKeyPassword string `yaml:"private_key_password"`
	Endpoint           string `yaml:"endpoint"`
	TimeoutSeconds     int    `yaml:"timeout_seconds"`
}

// TagFilter restricts the array query to arrays carrying a tag value.
type TagFilter struct {
	TagName string `yaml:"tag_name"`
	Value   string `yaml:"value"`
}

// Complete reports whether both halves of the filter are present. A partial
// tag filter is ignored, matching the original plugin behavior.
func (t *TagFilter) Complete() bool {
	return t != nil && t.TagName != "" && t.Value != ""
}

// KeyedGroup derives extra groups from a host variable value.
type KeyedGroup struct {
	Prefix string `yaml:"prefix"`
	Key    string `yaml:"key"`
}

// SchedulerConfig configures periodic rebuilds in watch mode.
type SchedulerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Tick    string `yaml:"tick"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// OutputConfig controls where rendered inventory documents are written.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// Load reads YAML configuration and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Pure1.Endpoint == "" {
		c.Pure1.Endpoint = DefaultEndpoint
	}
	if c.Pure1.TimeoutSeconds <= 0 {
		c.Pure1.TimeoutSeconds = 120
	}
	if c.Scheduler.Tick == "" {
		c.Scheduler.Tick = "15m"
	}
}

// Validate checks required fields and cross-field constraints.
func (c *Config) Validate() error {
	if c.Pure1.AppID == "" {
		return fmt.Errorf("config: pure1.app_id is required")
	}
	if c.Pure1.PrivateKeyFile == "" {
		return fmt.Errorf("config: pure1.private_key_file is required")
	}
	for i, kg := range c.KeyedGroups {
		if kg.Prefix == "" || kg.Key == "" {
			return fmt.Errorf("config: keyed_groups[%d] needs both prefix and key", i)
		}
	}
	if c.Scheduler.Enabled {
		if _, err := time.ParseDuration(c.Scheduler.Tick); err != nil {
			return fmt.Errorf("config: invalid scheduler tick %q: %w", c.Scheduler.Tick, err)
		}
	}
	return nil
}

// Timeout returns the per-run deadline for fleet queries.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Pure1.TimeoutSeconds) * time.Second
}
