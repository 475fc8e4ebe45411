package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Env maps environment variable names for storage configuration.
type Env struct {
	Root string
}

// Config contains filesystem access settings.
type Config struct {
	// Root confines every path to a directory when set. Relative paths resolve
	// against it and paths escaping it are rejected.
	// Default: "" (unconfined; relative paths resolve against the working directory)
	Root string `toml:"root"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Root != "" {
		c.Root = overlay.Root
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Root != "" {
		if v := os.Getenv(env.Root); v != "" {
			c.Root = v
		}
	}
}

func (c *Config) validate() error {
	if c.Root == "" {
		return nil
	}
	if _, err := filepath.Abs(c.Root); err != nil {
		return fmt.Errorf("invalid root: %w", err)
	}
	return nil
}
