package api

import (
	"fmt"

	"github.com/tenderwright/tenderwright/internal/rfp"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	RFP rfp.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	rfpSystem, err := rfp.New(&rfp.Runtime{
		Logger:    runtime.Logger,
		Sessions:  runtime.Sessions,
		Embedder:  runtime.Provider,
		Generator: runtime.Provider,
		Sources:   runtime.Sources,
		Artifacts: runtime.Artifacts,
		Options:   runtime.Workflow,
	})
	if err != nil {
		return nil, fmt.Errorf("rfp system: %w", err)
	}

	return &Domain{RFP: rfpSystem}, nil
}
