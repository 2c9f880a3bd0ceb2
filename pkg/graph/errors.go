package graph

import "errors"

// Sentinel errors for graph construction and execution.
var (
	ErrInvalidGraph  = errors.New("invalid graph")
	ErrDuplicateNode = errors.New("duplicate node")
	ErrUnknownNode   = errors.New("unknown node")
	ErrCompiled      = errors.New("graph already compiled")
	ErrNotCompiled   = errors.New("graph not compiled")
	ErrStepLimit     = errors.New("step limit exceeded")
)
