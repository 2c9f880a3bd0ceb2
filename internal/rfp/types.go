// Package rfp implements the tender proposal workflow: opportunity search and
// ranking, a suspend point for human selection, supporting document context
// extraction, proposal generation, and PDF export. The workflow runs as a
// linear state graph over a FlowState bag keyed by a session id.
package rfp

import "time"

// CompanyProfile describes the company a proposal is generated for.
// Both fields are required to start a workflow.
type CompanyProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Opportunity is a tender posting fetched from a sourcing feed. Immutable
// once ranked; MatchScore is the cosine similarity between the company
// profile embedding and the embedding of title + " " + description.
type Opportunity struct {
	Title           string    `json:"title"`
	Customer        string    `json:"customer"`
	Description     string    `json:"description"`
	ReferenceNumber string    `json:"reference_number"`
	MatchScore      float64   `json:"match_score"`
	PostingDate     time.Time `json:"posting_date,omitzero"`
	ClosingDate     time.Time `json:"closing_date,omitzero"`
	Regions         []string  `json:"regions,omitempty"`
	PostingURL      string    `json:"posting_url,omitempty"`
}

// UploadedFile carries an optional supporting document supplied on continue.
type UploadedFile struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

// FlowState is the state bag threaded through the workflow graph. Fields are
// filled in progressively and are append-only within one walk: no node clears
// a field set by an earlier node. The JSON encoding is the session store's
// persisted form.
type FlowState struct {
	SessionID             string          `json:"session_id"`
	CompanyProfile        *CompanyProfile `json:"company_profile,omitempty"`
	AllOpportunities      []Opportunity   `json:"all_opportunities,omitempty"`
	SelectedOpportunity   *Opportunity    `json:"selected_opportunity,omitempty"`
	SupportingFile        *UploadedFile   `json:"supporting_file,omitempty"`
	SupportingFileContext *string         `json:"supporting_file_context,omitempty"`
	GeneratedMarkdown     string          `json:"generated_document_markdown,omitempty"`
	ArtifactKey           string          `json:"artifact_key,omitempty"`
	GeneratedDocumentPath string          `json:"generated_document_path,omitempty"`
}

// SelectionMade reports whether the human selection step has completed.
// Presence of the selected opportunity is the workflow's resume signal.
func (s FlowState) SelectionMade() bool {
	return s.SelectedOpportunity != nil
}

// Status summarizes a session's progress for the status endpoint.
type Status struct {
	HasOpportunities  bool `json:"has_opportunities"`
	SelectionMade     bool `json:"selection_made"`
	DocumentGenerated bool `json:"document_generated"`
	AwaitingInput     bool `json:"awaiting_input"`
}
