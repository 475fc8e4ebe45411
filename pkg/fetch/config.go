package fetch

import (
	"fmt"
	"os"
	"time"
)

// Env maps environment variable names for fetch configuration.
type Env struct {
	Timeout   string
	UserAgent string
}

// Config contains HTTP retrieval settings.
type Config struct {
	// Timeout bounds a whole request, including reading the body.
	// Default: "30s"
	Timeout string `toml:"timeout"`

	// UserAgent is sent with every request.
	// Default: "mediaconv"
	UserAgent string `toml:"user_agent"`
}

// TimeoutDuration parses and returns the request timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
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
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.UserAgent == "" {
		c.UserAgent = "mediaconv"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.UserAgent != "" {
		if v := os.Getenv(env.UserAgent); v != "" {
			c.UserAgent = v
		}
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
