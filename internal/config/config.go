// Package config loads the service configuration from config.toml, an
// optional per-environment overlay, and TENDERWRIGHT_ environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/tenderwright/tenderwright/internal/artifacts"
	"github.com/tenderwright/tenderwright/internal/provider"
	"github.com/tenderwright/tenderwright/internal/sources"
	"github.com/tenderwright/tenderwright/pkg/sessions"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvTenderwrightEnv     = "TENDERWRIGHT_ENV"
	EnvShutdownTimeout     = "TENDERWRIGHT_SHUTDOWN_TIMEOUT"
	EnvTenderwrightVersion = "TENDERWRIGHT_VERSION"
)

var providerEnv = &provider.Env{
	BaseURL:        "TENDERWRIGHT_PROVIDER_BASE_URL",
	APIKey:         "TENDERWRIGHT_PROVIDER_API_KEY",
	ChatModel:      "TENDERWRIGHT_PROVIDER_CHAT_MODEL",
	EmbedModel:     "TENDERWRIGHT_PROVIDER_EMBED_MODEL",
	RequestTimeout: "TENDERWRIGHT_PROVIDER_REQUEST_TIMEOUT",
	MaxRetries:     "TENDERWRIGHT_PROVIDER_MAX_RETRIES",
}

var sessionsEnv = &sessions.Env{
	Backend:       "TENDERWRIGHT_SESSIONS_BACKEND",
	TTL:           "TENDERWRIGHT_SESSIONS_TTL",
	RedisAddr:     "TENDERWRIGHT_SESSIONS_REDIS_ADDR",
	RedisPassword: "TENDERWRIGHT_SESSIONS_REDIS_PASSWORD",
	RedisDB:       "TENDERWRIGHT_SESSIONS_REDIS_DB",
}

var sourcesEnv = &sources.Env{
	AlbertaURL: "TENDERWRIGHT_SOURCES_ALBERTA_URL",
	AribaURL:   "TENDERWRIGHT_SOURCES_ARIBA_URL",
	Timeout:    "TENDERWRIGHT_SOURCES_TIMEOUT",
}

var artifactsEnv = &artifacts.Env{
	Backend:          "TENDERWRIGHT_ARTIFACTS_BACKEND",
	Dir:              "TENDERWRIGHT_ARTIFACTS_DIR",
	ContainerName:    "TENDERWRIGHT_ARTIFACTS_CONTAINER_NAME",
	ConnectionString: "TENDERWRIGHT_ARTIFACTS_CONNECTION_STRING",
}

// Config is the root configuration for the Tenderwright service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	API             APIConfig        `toml:"api"`
	Provider        provider.Config  `toml:"provider"`
	Sessions        sessions.Config  `toml:"sessions"`
	Sources         sources.Config   `toml:"sources"`
	Artifacts       artifacts.Config `toml:"artifacts"`
	Workflow        WorkflowConfig   `toml:"workflow"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the TENDERWRIGHT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTenderwrightEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Provider.Merge(&overlay.Provider)
	c.Sessions.Merge(&overlay.Sessions)
	c.Sources.Merge(&overlay.Sources)
	c.Artifacts.Merge(&overlay.Artifacts)
	c.Workflow.Merge(&overlay.Workflow)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Provider.Finalize(providerEnv); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	if err := c.Sessions.Finalize(sessionsEnv); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	if err := c.Sources.Finalize(sourcesEnv); err != nil {
		return fmt.Errorf("sources: %w", err)
	}
	if err := c.Artifacts.Finalize(artifactsEnv); err != nil {
		return fmt.Errorf("artifacts: %w", err)
	}
	if err := c.Workflow.Finalize(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvTenderwrightVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
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

func overlayPath() string {
	if env := os.Getenv(EnvTenderwrightEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
