package provider

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds OpenAI API client parameters.
type Config struct {
	BaseURL             string  `toml:"base_url"`
	APIKey              string  `toml:"api_key"`
	ChatModel           string  `toml:"chat_model"`
	EmbedModel          string  `toml:"embed_model"`
	Temperature         float64 `toml:"temperature"`
	MaxCompletionTokens int64   `toml:"max_completion_tokens"`
	RequestTimeout      string  `toml:"request_timeout"`
	MaxRetries          int     `toml:"max_retries"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL        string
	APIKey         string
	ChatModel      string
	EmbedModel     string
	RequestTimeout string
	MaxRetries     string
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *Config) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
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
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.ChatModel != "" {
		c.ChatModel = overlay.ChatModel
	}
	if overlay.EmbedModel != "" {
		c.EmbedModel = overlay.EmbedModel
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxCompletionTokens != 0 {
		c.MaxCompletionTokens = overlay.MaxCompletionTokens
	}
	if overlay.RequestTimeout != "" {
		c.RequestTimeout = overlay.RequestTimeout
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
}

func (c *Config) loadDefaults() {
	if c.ChatModel == "" {
		c.ChatModel = "gpt-4o-mini"
	}
	if c.EmbedModel == "" {
		c.EmbedModel = "text-embedding-3-small"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxCompletionTokens == 0 {
		c.MaxCompletionTokens = 4096
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "2m"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.ChatModel != "" {
		if v := os.Getenv(env.ChatModel); v != "" {
			c.ChatModel = v
		}
	}
	if env.EmbedModel != "" {
		if v := os.Getenv(env.EmbedModel); v != "" {
			c.EmbedModel = v
		}
	}
	if env.RequestTimeout != "" {
		if v := os.Getenv(env.RequestTimeout); v != "" {
			c.RequestTimeout = v
		}
	}
	if env.MaxRetries != "" {
		if v := os.Getenv(env.MaxRetries); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				c.MaxRetries = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.ChatModel == "" {
		return fmt.Errorf("chat_model required")
	}
	if c.EmbedModel == "" {
		return fmt.Errorf("embed_model required")
	}
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	return nil
}
