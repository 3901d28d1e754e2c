package api

import (
	"net/http"

	"github.com/okian/lightswitch/internal/domain/types"
)

// LaunchHandler reports the launch flag.
type LaunchHandler struct{}

// NewLaunchHandler creates a new launch handler.
func NewLaunchHandler() *LaunchHandler {
	return &LaunchHandler{}
}

// HandleLaunch handles GET /api/launch/v2 requests.
func (h *LaunchHandler) HandleLaunch(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, types.Launch{Launch: true})
}
