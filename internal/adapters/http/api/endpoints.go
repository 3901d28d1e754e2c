package api

import (
	"net/http"

	"github.com/okian/lightswitch/internal/domain/types"
)

// EndpointsProvider exposes the endpoint directory.
type EndpointsProvider interface {
	Endpoints() []types.EndpointDescriptor
}

// EndpointsHandler serves the endpoint directory.
type EndpointsHandler struct {
	deps EndpointsProvider
}

// NewEndpointsHandler creates a new endpoints handler.
func NewEndpointsHandler(deps EndpointsProvider) *EndpointsHandler {
	return &EndpointsHandler{deps: deps}
}

// HandleEndpoints handles GET /api/endpoints requests.
func (h *EndpointsHandler) HandleEndpoints(w http.ResponseWriter, _ *http.Request) {
	endpoints := h.deps.Endpoints()
	if endpoints == nil {
		endpoints = []types.EndpointDescriptor{}
	}
	writeJSON(w, http.StatusOK, endpoints)
}
