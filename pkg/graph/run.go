package graph

import (
	"context"
	"fmt"
)

// Status reports how a walk halted.
type Status string

const (
	// StatusSuspended means the walk halted at a node awaiting external input
	// and can be resumed from that node once the input is present.
	StatusSuspended Status = "suspended"
	// StatusFinished means the finish point was executed; the walk is terminal.
	StatusFinished Status = "finished"
)

// Result describes where and how a walk halted.
type Result struct {
	Status Status
	Node   string
	Steps  int
}

// RunOption adjusts a single walk.
type RunOption func(*runConfig)

type runConfig struct {
	start string
}

// From starts the walk at the given node instead of the entry point. Used to
// resume a suspended walk from its suspend node.
func From(node string) RunOption {
	return func(c *runConfig) {
		c.start = node
	}
}

// Run walks the graph from the entry point (or the From node), executing one
// node at a time against the state. It returns the final state together with a
// Result identifying the halt point. A node error aborts the walk and is
// returned alongside the state accumulated so far; nothing is rolled back.
func (g *Graph[S]) Run(ctx context.Context, s S, opts ...RunOption) (S, Result, error) {
	if !g.compiled {
		return s, Result{}, ErrNotCompiled
	}

	cfg := runConfig{start: g.entry}
	for _, opt := range opts {
		opt(&cfg)
	}

	current := cfg.start
	if _, ok := g.nodes[current]; !ok {
		return s, Result{}, fmt.Errorf("%w: start %q", ErrUnknownNode, current)
	}

	steps := 0
	for {
		if err := ctx.Err(); err != nil {
			return s, Result{Node: current, Steps: steps}, err
		}

		steps++
		if steps > g.stepLimit {
			return s, Result{Node: current, Steps: steps}, fmt.Errorf("%w: %d steps in %s", ErrStepLimit, steps, g.name)
		}

		next, err := g.nodes[current](ctx, s)
		if err != nil {
			return s, Result{Node: current, Steps: steps}, fmt.Errorf("node %s: %w", current, err)
		}
		s = next

		if current == g.finish {
			return s, Result{Status: StatusFinished, Node: current, Steps: steps}, nil
		}

		if decide, ok := g.conditionals[current]; ok {
			target := decide(s)
			if target == current {
				return s, Result{Status: StatusSuspended, Node: current, Steps: steps}, nil
			}
			if _, ok := g.nodes[target]; !ok {
				return s, Result{Node: current, Steps: steps}, fmt.Errorf("%w: decision at %s chose %q", ErrUnknownNode, current, target)
			}
			current = target
			continue
		}

		current = g.edges[current]
	}
}
