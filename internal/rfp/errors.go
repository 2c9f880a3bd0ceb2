package rfp

import (
	"errors"
	"net/http"

	"github.com/tenderwright/tenderwright/pkg/sessions"
)

// Domain errors for the proposal workflow.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrMissingProfile   = errors.New("company profile required")
	ErrNoOpportunities  = errors.New("no opportunities fetched for session")
	ErrInvalidSelection = errors.New("selection index out of range")
	ErrMissingSelection = errors.New("no opportunity selected")
	ErrMissingDocument  = errors.New("no generated document in state")
	ErrUnsupportedFile  = errors.New("unsupported supporting file type")
	ErrEmbeddingFailed  = errors.New("embedding provider failed")
	ErrExtractFailed    = errors.New("supporting file extraction failed")
	ErrGenerateFailed   = errors.New("document generation failed")
	ErrExportFailed     = errors.New("document export failed")
)

// MapHTTPStatus maps workflow errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, sessions.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidSelection),
		errors.Is(err, ErrMissingProfile),
		errors.Is(err, ErrNoOpportunities),
		errors.Is(err, ErrMissingSelection),
		errors.Is(err, ErrUnsupportedFile),
		errors.Is(err, ErrExtractFailed):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmbeddingFailed),
		errors.Is(err, ErrGenerateFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
