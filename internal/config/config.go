// Package config loads and validates the feedd configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/uniflow"
	ferrors "git.home.luguber.info/inful/uniflow/internal/foundation/errors"
)

// Config is the root feedd configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
	Posts   PostsConfig   `yaml:"posts"`
	Refresh RefreshConfig `yaml:"refresh"`
	Metrics MetricsConfig `yaml:"metrics"`
	Journal JournalConfig `yaml:"journal"`
	Bridge  BridgeConfig  `yaml:"bridge"`
}

// StoreConfig tunes the feed store's effect buffer.
type StoreConfig struct {
	EffectBuffer int    `yaml:"effect_buffer,omitempty"`
	Overflow     string `yaml:"overflow,omitempty"` // block, drop_oldest, fail

	overflow uniflow.OverflowPolicy
}

// OverflowPolicy returns the normalized overflow policy. Valid only after
// Validate.
func (s StoreConfig) OverflowPolicy() uniflow.OverflowPolicy {
	return s.overflow
}

// PostsConfig locates the posts file.
type PostsConfig struct {
	Path   string `yaml:"path"`
	Watch  bool   `yaml:"watch,omitempty"`
	Render bool   `yaml:"render,omitempty"`
}

// RefreshConfig controls periodic background refresh. An empty or zero
// interval disables it.
type RefreshConfig struct {
	Interval string `yaml:"interval,omitempty"`

	every time.Duration
}

// Every returns the parsed refresh interval. Valid only after Validate;
// zero means disabled.
func (r RefreshConfig) Every() time.Duration {
	return r.every
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Listen  string `yaml:"listen,omitempty"`
}

// JournalConfig controls the SQLite dispatch journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// BridgeConfig controls effect forwarding over NATS.
type BridgeConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load reads, expands, and validates the configuration file. ${VAR}
// references in the YAML are expanded from the environment; a .env file in
// the working directory is loaded first when present, without overriding
// existing process variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store.EffectBuffer == 0 {
		c.Store.EffectBuffer = uniflow.DefaultEffectBuffer
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9464"
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		c.Journal.Path = "feedd.journal.db"
	}
	if c.Bridge.Enabled && c.Bridge.Subject == "" {
		c.Bridge.Subject = "uniflow.effects.feed"
	}
}

// Validate checks the configuration and normalizes enum fields.
func (c *Config) Validate() error {
	if c.Posts.Path == "" {
		return ferrors.ConfigError("posts.path is required").Build()
	}

	if c.Store.EffectBuffer < 1 {
		return ferrors.ConfigError("store.effect_buffer must be at least 1").
			WithContext("effect_buffer", c.Store.EffectBuffer).
			Build()
	}

	overflow, err := overflowNormalizer.NormalizeStrict(c.Store.Overflow)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid store.overflow").Build()
	}
	c.Store.overflow = overflow

	if c.Refresh.Interval != "" {
		every, err := time.ParseDuration(c.Refresh.Interval)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid refresh.interval").Build()
		}
		if every < 0 {
			return ferrors.ConfigError("refresh.interval must not be negative").Build()
		}
		c.Refresh.every = every
	}

	if c.Bridge.Enabled && c.Bridge.URL == "" {
		return ferrors.ConfigError("bridge.url is required when the bridge is enabled").Build()
	}

	if _, err := logLevelNormalizer.NormalizeStrict(c.Logging.Level); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.level").Build()
	}
	if _, err := logFormatNormalizer.NormalizeStrict(c.Logging.Format); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.format").Build()
	}

	return nil
}
