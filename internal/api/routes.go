package api

import (
	"net/http"

	"github.com/tenderwright/tenderwright/internal/rfp"
	"github.com/tenderwright/tenderwright/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	routes.Register(
		mux,
		rfp.NewHandler(domain.RFP, runtime.Logger, runtime.MaxUploadSize).Routes(),
		newArtifactsHandler(runtime.Artifacts, runtime.Logger).routes(),
	)
}
