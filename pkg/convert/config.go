package convert

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

// Env maps environment variable names for converter configuration.
type Env struct {
	MaxPayloadSize string
}

// Config contains converter limits.
type Config struct {
	// MaxPayloadSize bounds every buffered payload, as a human-readable size.
	// Default: "100MB"
	MaxPayloadSize    string `toml:"max_payload_size"`
	maxPayloadSizeVal int64
}

// MaxPayloadBytes returns the parsed payload limit. Valid after Finalize.
func (c *Config) MaxPayloadBytes() int64 {
	return c.maxPayloadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if size, err := units.FromHumanSize(overlay.MaxPayloadSize); err == nil {
		c.MaxPayloadSize = overlay.MaxPayloadSize
		c.maxPayloadSizeVal = size
	}
}

func (c *Config) loadDefaults() {
	if c.MaxPayloadSize == "" {
		c.MaxPayloadSize = "100MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxPayloadSize != "" {
		if v := os.Getenv(env.MaxPayloadSize); v != "" {
			c.MaxPayloadSize = v
		}
	}
}

func (c *Config) validate() error {
	size, err := units.FromHumanSize(c.MaxPayloadSize)
	if err != nil {
		return fmt.Errorf("invalid max_payload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_payload_size must be positive")
	}
	c.maxPayloadSizeVal = size

	return nil
}
