// Package config loads the peripheral's YAML configuration file and
// applies defaults so the daemon runs sensibly with no file at all.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds daemon configuration.
type Config struct {
	// Name is the advertised device name.
	Name string `yaml:"name" default:"hogp-kbd"`

	// AdvertiseInterval is the advertising interval while the peripheral
	// is accepting connections.
	AdvertiseInterval time.Duration `yaml:"advertise_interval" default:"500ms"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" default:"info"`

	Demo DemoConfig `yaml:"demo"`
}

// DemoConfig controls the periodic demo typing loop.
type DemoConfig struct {
	// Enabled switches the demo loop on.
	Enabled bool `yaml:"enabled"`

	// Text is typed on every tick while a central is connected.
	Text string `yaml:"text" default:"hello"`

	// Interval is the delay between ticks.
	Interval time.Duration `yaml:"interval" default:"5s"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// rawConfig mirrors Config with durations as strings, since the YAML
// decoder has no native notion of "500ms".
type rawConfig struct {
	Name              string `yaml:"name"`
	AdvertiseInterval string `yaml:"advertise_interval"`
	LogLevel          string `yaml:"log_level"`
	Demo              struct {
		Enabled  *bool  `yaml:"enabled"`
		Text     string `yaml:"text"`
		Interval string `yaml:"interval"`
	} `yaml:"demo"`
}

// Load reads a YAML configuration file, filling unset fields with
// defaults. Load validates before returning.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config bytes over the defaults and validates the
// result.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	cfg := Default()
	if raw.Name != "" {
		cfg.Name = raw.Name
	}
	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}
	if err := overrideDuration(&cfg.AdvertiseInterval, "advertise_interval", raw.AdvertiseInterval); err != nil {
		return nil, err
	}
	if raw.Demo.Enabled != nil {
		cfg.Demo.Enabled = *raw.Demo.Enabled
	}
	if raw.Demo.Text != "" {
		cfg.Demo.Text = raw.Demo.Text
	}
	if err := overrideDuration(&cfg.Demo.Interval, "demo.interval", raw.Demo.Interval); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideDuration(dst *time.Duration, field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	*dst = d
	return nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if c.AdvertiseInterval <= 0 {
		return fmt.Errorf("advertise_interval must be positive, got %s", c.AdvertiseInterval)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q (must be debug, info, warn, or error)", c.LogLevel)
	}
	if c.Demo.Enabled {
		if c.Demo.Text == "" {
			return fmt.Errorf("demo.text must not be empty when the demo loop is enabled")
		}
		if c.Demo.Interval <= 0 {
			return fmt.Errorf("demo.interval must be positive, got %s", c.Demo.Interval)
		}
	}
	return nil
}

// NewLogger creates a logger at the configured level.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger
}
