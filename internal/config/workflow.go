package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvWorkflowTopK         = "TENDERWRIGHT_WORKFLOW_TOP_K"
	EnvWorkflowContextLimit = "TENDERWRIGHT_WORKFLOW_CONTEXT_LIMIT"
	EnvWorkflowStepLimit    = "TENDERWRIGHT_WORKFLOW_STEP_LIMIT"
)

// WorkflowConfig holds workflow tuning parameters. Zero values defer to the
// workflow's own defaults.
type WorkflowConfig struct {
	TopK         int `toml:"top_k"`
	ContextLimit int `toml:"context_limit"`
	StepLimit    int `toml:"step_limit"`
}

// Finalize applies environment variable overrides and validation.
func (c *WorkflowConfig) Finalize() error {
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkflowConfig) Merge(overlay *WorkflowConfig) {
	if overlay.TopK != 0 {
		c.TopK = overlay.TopK
	}
	if overlay.ContextLimit != 0 {
		c.ContextLimit = overlay.ContextLimit
	}
	if overlay.StepLimit != 0 {
		c.StepLimit = overlay.StepLimit
	}
}

func (c *WorkflowConfig) loadEnv() {
	for _, v := range []struct {
		env    string
		target *int
	}{
		{EnvWorkflowTopK, &c.TopK},
		{EnvWorkflowContextLimit, &c.ContextLimit},
		{EnvWorkflowStepLimit, &c.StepLimit},
	} {
		if s := os.Getenv(v.env); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				*v.target = n
			}
		}
	}
}

func (c *WorkflowConfig) validate() error {
	if c.TopK < 0 {
		return fmt.Errorf("top_k must not be negative")
	}
	if c.ContextLimit < 0 {
		return fmt.Errorf("context_limit must not be negative")
	}
	if c.StepLimit < 0 {
		return fmt.Errorf("step_limit must not be negative")
	}
	return nil
}
