package metrics

import (
	"fmt"
	"os"
	"regexp"
)

// Env maps environment variable names for metrics configuration.
type Env struct {
	Namespace string
	Textfile  string
}

// Config contains metrics export settings.
type Config struct {
	// Namespace prefixes every metric name.
	// Default: "mediaconv"
	Namespace string `toml:"namespace"`

	// Textfile, when set, receives the registry in Prometheus text format
	// after each run, for collection by a node exporter textfile collector.
	Textfile string `toml:"textfile"`
}

var namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

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
	if overlay.Namespace != "" {
		c.Namespace = overlay.Namespace
	}
	if overlay.Textfile != "" {
		c.Textfile = overlay.Textfile
	}
}

func (c *Config) loadDefaults() {
	if c.Namespace == "" {
		c.Namespace = "mediaconv"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Namespace != "" {
		if v := os.Getenv(env.Namespace); v != "" {
			c.Namespace = v
		}
	}
	if env.Textfile != "" {
		if v := os.Getenv(env.Textfile); v != "" {
			c.Textfile = v
		}
	}
}

func (c *Config) validate() error {
	if !namespacePattern.MatchString(c.Namespace) {
		return fmt.Errorf("invalid namespace: %q", c.Namespace)
	}
	return nil
}
