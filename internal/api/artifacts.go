package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/tenderwright/tenderwright/internal/artifacts"
	"github.com/tenderwright/tenderwright/pkg/handlers"
	"github.com/tenderwright/tenderwright/pkg/routes"
)

// artifactsHandler re-serves previously exported proposal documents.
type artifactsHandler struct {
	store  artifacts.Store
	logger *slog.Logger
}

func newArtifactsHandler(store artifacts.Store, logger *slog.Logger) *artifactsHandler {
	return &artifactsHandler{
		store:  store,
		logger: logger.With("handler", "artifacts"),
	}
}

func (h *artifactsHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/artifacts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/download/{key...}", Handler: h.download},
		},
	}
}

func (h *artifactsHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := h.store.Open(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, artifacts.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}
