// Package config provides application configuration management with support for
// TOML files, environment variable overrides, and configuration overlays.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/mediaconv/internal/metrics"
	"github.com/JaimeStill/mediaconv/pkg/convert"
	"github.com/JaimeStill/mediaconv/pkg/fetch"
	"github.com/JaimeStill/mediaconv/pkg/logging"
	"github.com/JaimeStill/mediaconv/pkg/storage"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvMediaconvEnv specifies the environment name for configuration overlays.
	EnvMediaconvEnv = "MEDIACONV_ENV"
)

// Config represents the root application configuration.
type Config struct {
	Logging logging.Config `toml:"logging"`
	Convert convert.Config `toml:"convert"`
	Fetch   fetch.Config   `toml:"fetch"`
	Storage storage.Config `toml:"storage"`
	Metrics metrics.Config `toml:"metrics"`
}

var loggingEnv = &logging.Env{
	Level:  "MEDIACONV_LOG_LEVEL",
	Format: "MEDIACONV_LOG_FORMAT",
	File:   "MEDIACONV_LOG_FILE",
}

var convertEnv = &convert.Env{
	MaxPayloadSize: "MEDIACONV_MAX_PAYLOAD_SIZE",
}

var fetchEnv = &fetch.Env{
	Timeout:   "MEDIACONV_FETCH_TIMEOUT",
	UserAgent: "MEDIACONV_FETCH_USER_AGENT",
}

var storageEnv = &storage.Env{
	Root: "MEDIACONV_STORAGE_ROOT",
}

var metricsEnv = &metrics.Env{
	Namespace: "MEDIACONV_METRICS_NAMESPACE",
	Textfile:  "MEDIACONV_METRICS_TEXTFILE",
}

// Load reads the configuration file at path (BaseConfigFile when empty) and
// applies the overlay named by MEDIACONV_ENV from the same directory.
// A missing base file yields an empty configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		path = BaseConfigFile
	}

	cfg, err := load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	if overlay := overlayPath(path); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Convert.Finalize(convertEnv); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	if err := c.Fetch.Finalize(fetchEnv); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Metrics.Finalize(metricsEnv); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	c.Logging.Merge(&overlay.Logging)
	c.Convert.Merge(&overlay.Convert)
	c.Fetch.Merge(&overlay.Fetch)
	c.Storage.Merge(&overlay.Storage)
	c.Metrics.Merge(&overlay.Metrics)
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	if env := os.Getenv(EnvMediaconvEnv); env != "" {
		p := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
