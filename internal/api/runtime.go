package api

import (
	"github.com/tenderwright/tenderwright/internal/config"
	"github.com/tenderwright/tenderwright/internal/infrastructure"
	"github.com/tenderwright/tenderwright/internal/rfp"
	"github.com/tenderwright/tenderwright/internal/sources"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	MaxUploadSize int64
	Sources       []rfp.Source
	Workflow      rfp.Options
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Sessions:  infra.Sessions,
			Artifacts: infra.Artifacts,
			Provider:  infra.Provider,
		},
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
		Sources:       sources.New(&cfg.Sources, logger),
		Workflow: rfp.Options{
			TopK:         cfg.Workflow.TopK,
			ContextLimit: cfg.Workflow.ContextLimit,
			StepLimit:    cfg.Workflow.StepLimit,
		},
	}
}
