// Package infrastructure provides core service initialization for application
// startup. It assembles the common dependencies (logging, session storage,
// artifact storage, the model provider) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/tenderwright/tenderwright/internal/artifacts"
	"github.com/tenderwright/tenderwright/internal/config"
	"github.com/tenderwright/tenderwright/internal/provider"
	"github.com/tenderwright/tenderwright/internal/rfp"
	"github.com/tenderwright/tenderwright/pkg/lifecycle"
	"github.com/tenderwright/tenderwright/pkg/sessions"
)

// Infrastructure holds the core systems required by the domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, session storage, artifact storage, and the model provider.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Sessions  sessions.Store[rfp.FlowState]
	Artifacts artifacts.Store
	Provider  *provider.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := newSessions(cfg, lc, logger)
	if err != nil {
		return nil, fmt.Errorf("sessions init failed: %w", err)
	}

	artifactStore, err := artifacts.New(&cfg.Artifacts, logger)
	if err != nil {
		return nil, fmt.Errorf("artifacts init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Sessions:  store,
		Artifacts: artifactStore,
		Provider:  provider.New(&cfg.Provider, logger),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Artifacts.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("artifacts start failed: %w", err)
	}
	return nil
}

func newSessions(cfg *config.Config, lc *lifecycle.Coordinator, logger *slog.Logger) (sessions.Store[rfp.FlowState], error) {
	switch cfg.Sessions.Backend {
	case sessions.BackendMemory:
		logger.Info("starting session store", "backend", sessions.BackendMemory, "ttl", cfg.Sessions.TTL)
		return sessions.NewMemoryStore[rfp.FlowState](cfg.Sessions.TTLDuration()), nil

	case sessions.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Sessions.RedisAddr,
			Password: cfg.Sessions.RedisPassword,
			DB:       cfg.Sessions.RedisDB,
		})
		store := sessions.NewRedisStore[rfp.FlowState](client, cfg.Sessions.TTLDuration())

		logger.Info("starting session store", "backend", sessions.BackendRedis, "addr", cfg.Sessions.RedisAddr)
		lc.OnStartup(func() {
			if err := store.Ping(context.Background()); err != nil {
				logger.Error("redis unreachable", "addr", cfg.Sessions.RedisAddr, "error", err)
				return
			}
			logger.Info("redis connection verified", "addr", cfg.Sessions.RedisAddr)
		})
		lc.OnShutdown(func() {
			<-lc.Context().Done()
			if err := client.Close(); err != nil {
				logger.Error("redis close failed", "error", err)
			}
		})
		return store, nil

	default:
		return nil, fmt.Errorf("unknown sessions backend: %s", cfg.Sessions.Backend)
	}
}
