package rfp

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestExportNodePreconditions(t *testing.T) {
	node := ExportNode(&Runtime{Logger: slog.New(slog.DiscardHandler)})

	tests := []struct {
		name  string
		state FlowState
		want  error
	}{
		{"missing document", FlowState{}, ErrMissingDocument},
		{
			"missing selection",
			FlowState{GeneratedMarkdown: "# Proposal", CompanyProfile: &CompanyProfile{Name: "n", Description: "d"}},
			ErrMissingSelection,
		},
		{
			"missing profile",
			FlowState{GeneratedMarkdown: "# Proposal", SelectedOpportunity: &Opportunity{Title: "t"}},
			ErrMissingProfile,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := node(context.Background(), tc.state); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}
