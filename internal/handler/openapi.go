package handler

import (
	"net/http"

	"github.com/manaworks/jobportal/internal/openapi"
)

// OpenAPIHandler serves the OpenAPI 3.1 document describing the job portal
// API. The server URL in the document is derived from the incoming request.
type OpenAPIHandler struct {
	version string
}

// NewOpenAPIHandler creates a new OpenAPIHandler.
func NewOpenAPIHandler(version string) *OpenAPIHandler {
	return &OpenAPIHandler{version: version}
}

// ServeSpec writes the OpenAPI document.
// GET /openapi.json
func (h *OpenAPIHandler) ServeSpec(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, openapi.Generate(h.version, requestBaseURL(r)))
}

// requestBaseURL reconstructs scheme://host for the current request,
// honouring X-Forwarded-Proto from a terminating proxy.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
