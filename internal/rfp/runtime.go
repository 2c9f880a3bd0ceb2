package rfp

import (
	"context"
	"log/slog"

	"github.com/tenderwright/tenderwright/internal/artifacts"
	"github.com/tenderwright/tenderwright/pkg/sessions"
)

// Embedder computes a vector representation of text. Equal text must yield
// equal vectors within a session's lifetime.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Generator produces proposal text from a structured prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Source fetches raw tender opportunities from one external feed.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Opportunity, error)
}

// Options bound workflow behavior; zero values fall back to defaults.
type Options struct {
	// TopK caps the ranked opportunity list.
	TopK int
	// ContextLimit caps extracted supporting file text, in runes.
	ContextLimit int
	// StepLimit bounds one graph walk.
	StepLimit int
}

const (
	defaultTopK         = 10
	defaultContextLimit = 2000
)

func (o *Options) finalize() {
	if o.TopK <= 0 {
		o.TopK = defaultTopK
	}
	if o.ContextLimit <= 0 {
		o.ContextLimit = defaultContextLimit
	}
}

// Runtime carries the collaborators workflow nodes close over.
type Runtime struct {
	Logger    *slog.Logger
	Sessions  sessions.Store[FlowState]
	Embedder  Embedder
	Generator Generator
	Sources   []Source
	Artifacts artifacts.Store
	Options   Options
}
