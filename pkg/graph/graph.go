// Package graph provides a synchronous state-graph executor for linear
// workflows with suspend points. A graph is a set of named nodes connected by
// unconditional or conditional edges; execution walks the graph one node at a
// time against a shared state value and halts either at the finish point or at
// a node whose conditional edge resolves back to itself, which signals that
// external input is required before the walk can advance.
package graph

import (
	"context"
	"fmt"
)

// NodeFunc executes one workflow step against the current state and returns
// the (possibly mutated) state.
type NodeFunc[S any] func(ctx context.Context, s S) (S, error)

// Decision selects the next node name from the state produced by the node it
// guards. Returning the guarded node's own name halts the walk at that node.
type Decision[S any] func(s S) string

// DefaultStepLimit bounds a single walk; linear workflows never approach it.
const DefaultStepLimit = 64

// Graph is an immutable-after-compile workflow definition shared read-only
// across sessions. It is not safe to mutate concurrently with Run.
type Graph[S any] struct {
	name         string
	nodes        map[string]NodeFunc[S]
	edges        map[string]string
	conditionals map[string]Decision[S]
	entry        string
	finish       string
	stepLimit    int
	compiled     bool
}

// New creates an empty graph with the given name.
func New[S any](name string) *Graph[S] {
	return &Graph[S]{
		name:         name,
		nodes:        make(map[string]NodeFunc[S]),
		edges:        make(map[string]string),
		conditionals: make(map[string]Decision[S]),
		stepLimit:    DefaultStepLimit,
	}
}

// SetStepLimit overrides the per-walk step bound. Values below 1 are ignored.
func (g *Graph[S]) SetStepLimit(limit int) {
	if limit >= 1 {
		g.stepLimit = limit
	}
}

// AddNode registers a named node. Node names must be unique.
func (g *Graph[S]) AddNode(name string, fn NodeFunc[S]) error {
	if g.compiled {
		return ErrCompiled
	}
	if name == "" {
		return fmt.Errorf("%w: empty node name", ErrInvalidGraph)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil node func for %q", ErrInvalidGraph, name)
	}
	if _, ok := g.nodes[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	g.nodes[name] = fn
	return nil
}

// AddEdge declares an unconditional transition from one node to another.
// A node may carry either one unconditional edge or one conditional edge.
func (g *Graph[S]) AddEdge(from, to string) error {
	if g.compiled {
		return ErrCompiled
	}
	if err := g.checkSource(from); err != nil {
		return err
	}
	g.edges[from] = to
	return nil
}

// AddConditionalEdge declares a transition guarded by a decision function.
func (g *Graph[S]) AddConditionalEdge(from string, decide Decision[S]) error {
	if g.compiled {
		return ErrCompiled
	}
	if decide == nil {
		return fmt.Errorf("%w: nil decision for %q", ErrInvalidGraph, from)
	}
	if err := g.checkSource(from); err != nil {
		return err
	}
	g.conditionals[from] = decide
	return nil
}

// SetEntryPoint declares the node executed first on an initial walk.
func (g *Graph[S]) SetEntryPoint(name string) error {
	if g.compiled {
		return ErrCompiled
	}
	g.entry = name
	return nil
}

// SetFinishPoint declares the terminal node; the walk stops after running it.
func (g *Graph[S]) SetFinishPoint(name string) error {
	if g.compiled {
		return ErrCompiled
	}
	g.finish = name
	return nil
}

// Compile validates the graph and freezes it for execution: entry and finish
// must exist, every edge endpoint must name a registered node, and every
// non-finish node must have exactly one outgoing edge.
func (g *Graph[S]) Compile() error {
	if g.compiled {
		return ErrCompiled
	}
	if g.entry == "" {
		return fmt.Errorf("%w: no entry point", ErrInvalidGraph)
	}
	if g.finish == "" {
		return fmt.Errorf("%w: no finish point", ErrInvalidGraph)
	}
	if _, ok := g.nodes[g.entry]; !ok {
		return fmt.Errorf("%w: entry %q", ErrUnknownNode, g.entry)
	}
	if _, ok := g.nodes[g.finish]; !ok {
		return fmt.Errorf("%w: finish %q", ErrUnknownNode, g.finish)
	}
	for from, to := range g.edges {
		if _, ok := g.nodes[to]; !ok {
			return fmt.Errorf("%w: edge %s -> %s", ErrUnknownNode, from, to)
		}
	}
	for name := range g.nodes {
		if name == g.finish {
			continue
		}
		_, hasEdge := g.edges[name]
		_, hasCond := g.conditionals[name]
		if !hasEdge && !hasCond {
			return fmt.Errorf("%w: node %q has no outgoing edge", ErrInvalidGraph, name)
		}
	}
	g.compiled = true
	return nil
}

func (g *Graph[S]) checkSource(from string) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, from)
	}
	if _, ok := g.edges[from]; ok {
		return fmt.Errorf("%w: %q already has an edge", ErrInvalidGraph, from)
	}
	if _, ok := g.conditionals[from]; ok {
		return fmt.Errorf("%w: %q already has an edge", ErrInvalidGraph, from)
	}
	return nil
}
