package sources

import (
	"fmt"
	"os"
	"time"
)

// Config holds opportunity feed parameters. Empty URLs disable a feed.
type Config struct {
	AlbertaURL string `toml:"alberta_url"`
	AribaURL   string `toml:"ariba_url"`
	Timeout    string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	AlbertaURL string
	AribaURL   string
	Timeout    string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.AlbertaURL != "" {
		c.AlbertaURL = overlay.AlbertaURL
	}
	if overlay.AribaURL != "" {
		c.AribaURL = overlay.AribaURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.AlbertaURL != "" {
		if v := os.Getenv(env.AlbertaURL); v != "" {
			c.AlbertaURL = v
		}
	}
	if env.AribaURL != "" {
		if v := os.Getenv(env.AribaURL); v != "" {
			c.AribaURL = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
