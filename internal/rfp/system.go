package rfp

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tenderwright/tenderwright/pkg/graph"
	"github.com/tenderwright/tenderwright/pkg/sessions"
)

// Artifact is the exported proposal returned from a completed workflow.
// The caller must close Content.
type Artifact struct {
	Path    string
	Content io.ReadCloser
}

// System is the workflow orchestrator: the service boundary between external
// triggers and the graph executor.
type System interface {
	// Start creates a session for the profile and runs the workflow to its
	// suspend point, returning the session id and ranked opportunities.
	Start(ctx context.Context, profile CompanyProfile) (string, []Opportunity, error)
	// Continue applies the human selection (1-based index into the ranked
	// list) and optional supporting file, resumes the workflow from the
	// suspend point, and returns the exported document.
	Continue(ctx context.Context, sessionID string, index int, file *UploadedFile) (*Artifact, error)
	// Status reports a session's progress flags.
	Status(ctx context.Context, sessionID string) (*Status, error)
	// Abandon deletes a session; a no-op when the session is already gone.
	Abandon(ctx context.Context, sessionID string) error
}

type system struct {
	rt    *Runtime
	graph *graph.Graph[FlowState]
}

// New creates the workflow System from its runtime collaborators.
func New(rt *Runtime) (System, error) {
	rt.Options.finalize()

	g, err := BuildGraph(rt)
	if err != nil {
		return nil, err
	}
	return &system{rt: rt, graph: g}, nil
}

func (s *system) Start(ctx context.Context, profile CompanyProfile) (string, []Opportunity, error) {
	if profile.Name == "" || profile.Description == "" {
		return "", nil, ErrMissingProfile
	}

	state := FlowState{CompanyProfile: &profile}
	id, err := s.rt.Sessions.Create(ctx, state)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	state.SessionID = id

	state, result, runErr := s.graph.Run(ctx, state)

	// Persist whatever the walk produced, even on failure; completed nodes
	// are not rolled back.
	if err := s.rt.Sessions.Update(ctx, id, state); err != nil {
		return "", nil, fmt.Errorf("persist session %s: %w", id, err)
	}
	if runErr != nil {
		return "", nil, runErr
	}

	s.rt.Logger.InfoContext(
		ctx, "workflow started",
		"session", id,
		"status", result.Status,
		"node", result.Node,
		"opportunities", len(state.AllOpportunities),
	)
	return id, state.AllOpportunities, nil
}

func (s *system) Continue(ctx context.Context, sessionID string, index int, file *UploadedFile) (*Artifact, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(state.AllOpportunities) == 0 {
		return nil, ErrNoOpportunities
	}
	if index < 1 || index > len(state.AllOpportunities) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidSelection, index, len(state.AllOpportunities))
	}

	if state.SelectedOpportunity == nil {
		selected := state.AllOpportunities[index-1]
		state.SelectedOpportunity = &selected
	}
	// A new upload replaces the stored one until its context has been
	// extracted, so a failed extraction can be retried with a corrected file.
	if file != nil && state.SupportingFileContext == nil {
		state.SupportingFile = file
	}

	if err := s.rt.Sessions.Update(ctx, sessionID, state); err != nil {
		return nil, s.storeErr(sessionID, err)
	}

	state, result, runErr := s.graph.Run(ctx, state, graph.From(NodeAwaitSelection))

	if err := s.rt.Sessions.Update(ctx, sessionID, state); err != nil {
		return nil, s.storeErr(sessionID, err)
	}
	if runErr != nil {
		return nil, runErr
	}
	if result.Status != graph.StatusFinished {
		return nil, fmt.Errorf("workflow halted at %s without finishing", result.Node)
	}

	content, err := s.rt.Artifacts.Open(ctx, state.ArtifactKey)
	if err != nil {
		return nil, fmt.Errorf("%w: open artifact: %w", ErrExportFailed, err)
	}

	s.rt.Logger.InfoContext(
		ctx, "workflow finished",
		"session", sessionID,
		"steps", result.Steps,
		"path", state.GeneratedDocumentPath,
	)
	return &Artifact{Path: state.GeneratedDocumentPath, Content: content}, nil
}

func (s *system) Status(ctx context.Context, sessionID string) (*Status, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &Status{
		HasOpportunities:  len(state.AllOpportunities) > 0,
		SelectionMade:     state.SelectionMade(),
		DocumentGenerated: state.GeneratedDocumentPath != "",
		AwaitingInput:     !state.SelectionMade(),
	}, nil
}

func (s *system) Abandon(ctx context.Context, sessionID string) error {
	return s.rt.Sessions.Delete(ctx, sessionID)
}

func (s *system) load(ctx context.Context, sessionID string) (FlowState, error) {
	state, err := s.rt.Sessions.Get(ctx, sessionID)
	if err != nil {
		return state, s.storeErr(sessionID, err)
	}
	return state, nil
}

func (s *system) storeErr(sessionID string, err error) error {
	if errors.Is(err, sessions.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return err
}
