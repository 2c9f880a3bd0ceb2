package rfp

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tenderwright/tenderwright/pkg/handlers"
	"github.com/tenderwright/tenderwright/pkg/routes"
)

// Handler provides the workflow's HTTP endpoints.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// StartRequest is the JSON body for the start endpoint.
type StartRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StartResponse returns the session handle and the ranked opportunities.
type StartResponse struct {
	SessionID     string        `json:"session_id"`
	Opportunities []Opportunity `json:"opportunities"`
}

// StatusRequest is the JSON body for the status endpoint.
type StatusRequest struct {
	SessionID string `json:"session_id"`
}

var errInvalidRequest = errors.New("invalid request body")

// NewHandler creates a Handler with the given system, logger, and upload limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "rfp"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for workflow endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/rfp",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/start", Handler: h.Start},
			{Method: "POST", Pattern: "/continue", Handler: h.Continue},
			{Method: "POST", Pattern: "/status", Handler: h.Status},
		},
	}
}

// Start creates a session from a company profile and returns the ranked
// opportunity list once the workflow suspends for selection.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	sessionID, opportunities, err := h.sys.Start(r.Context(), CompanyProfile{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if opportunities == nil {
		opportunities = []Opportunity{}
	}
	handlers.RespondJSON(w, http.StatusOK, StartResponse{
		SessionID:     sessionID,
		Opportunities: opportunities,
	})
}

// Continue accepts a multipart form with the session id, a 1-based selection
// index, and an optional supporting file; it resumes the workflow and streams
// back the exported PDF.
func (h *Handler) Continue(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	index, err := strconv.Atoi(r.FormValue("selected_index"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSelection)
		return
	}

	upload, err := h.readUpload(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	artifact, err := h.sys.Continue(r.Context(), sessionID, index, upload)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer artifact.Content.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="proposal.pdf"`)
	if _, err := io.Copy(w, artifact.Content); err != nil {
		h.logger.Error("stream artifact", "error", err)
	}
}

// Status reports the session's progress flags.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	status, err := h.sys.Status(r.Context(), req.SessionID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, status)
}

func (h *Handler) readUpload(r *http.Request) (*UploadedFile, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errInvalidRequest
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errInvalidRequest
	}

	return &UploadedFile{Filename: header.Filename, Data: data}, nil
}
