package api

import (
	"net/http"

	"github.com/okian/lightswitch/internal/domain/types"
)

// Healthy is the only health value the service reports.
const Healthy = "Healthy"

// BuildInfoProvider exposes static build metadata.
type BuildInfoProvider interface {
	BuildInfo() types.Health
}

// LightswitchHandler handles the build metadata and health endpoint.
type LightswitchHandler struct {
	deps BuildInfoProvider
}

// NewLightswitchHandler creates a new lightswitch handler.
func NewLightswitchHandler(deps BuildInfoProvider) *LightswitchHandler {
	return &LightswitchHandler{deps: deps}
}

// HandleLightswitch handles GET /api/lightswitch/v2 requests.
func (h *LightswitchHandler) HandleLightswitch(w http.ResponseWriter, _ *http.Request) {
	info := h.deps.BuildInfo()
	info.Health = Healthy
	writeJSON(w, http.StatusOK, info)
}
