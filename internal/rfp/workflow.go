package rfp

import (
	"fmt"

	"github.com/tenderwright/tenderwright/pkg/graph"
)

// Workflow node names.
const (
	NodeFetchRank      = "fetch_and_rank"
	NodeAwaitSelection = "await_selection"
	NodeExtractContext = "extract_context"
	NodeGenerate       = "generate_document"
	NodeExport         = "export_document"
)

// BuildGraph wires the proposal workflow:
//
//	fetch_and_rank -> await_selection -(selection made?)-> extract_context
//	-> generate_document -> export_document
//
// await_selection is the single suspend point: its conditional edge re-selects
// the node itself until a selection is present in the state. The compiled
// graph is immutable and shared read-only across sessions.
func BuildGraph(rt *Runtime) (*graph.Graph[FlowState], error) {
	g := graph.New[FlowState]("rfp-proposal")
	if rt.Options.StepLimit > 0 {
		g.SetStepLimit(rt.Options.StepLimit)
	}

	nodes := []struct {
		name string
		fn   graph.NodeFunc[FlowState]
	}{
		{NodeFetchRank, FetchRankNode(rt)},
		{NodeAwaitSelection, AwaitSelectionNode(rt)},
		{NodeExtractContext, ExtractContextNode(rt)},
		{NodeGenerate, GenerateNode(rt)},
		{NodeExport, ExportNode(rt)},
	}
	for _, n := range nodes {
		if err := g.AddNode(n.name, n.fn); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.name, err)
		}
	}

	if err := g.AddEdge(NodeFetchRank, NodeAwaitSelection); err != nil {
		return nil, err
	}
	if err := g.AddConditionalEdge(NodeAwaitSelection, selectionDecision); err != nil {
		return nil, err
	}
	if err := g.AddEdge(NodeExtractContext, NodeGenerate); err != nil {
		return nil, err
	}
	if err := g.AddEdge(NodeGenerate, NodeExport); err != nil {
		return nil, err
	}

	if err := g.SetEntryPoint(NodeFetchRank); err != nil {
		return nil, err
	}
	if err := g.SetFinishPoint(NodeExport); err != nil {
		return nil, err
	}

	if err := g.Compile(); err != nil {
		return nil, fmt.Errorf("compile workflow graph: %w", err)
	}
	return g, nil
}

// selectionDecision holds the walk at await_selection until the external
// caller supplies a selected opportunity.
func selectionDecision(s FlowState) string {
	if s.SelectionMade() {
		return NodeExtractContext
	}
	return NodeAwaitSelection
}
