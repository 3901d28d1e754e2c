package api

import (
	"context"
	"net/http"

	"github.com/okian/lightswitch/internal/domain/types"
	"github.com/okian/lightswitch/pkg/logger"
	"github.com/okian/lightswitch/pkg/metrics"
)

// RestartMessage is returned when a restart is accepted.
const RestartMessage = "Server is restarting..."

// RestartScheduler arms process termination.
type RestartScheduler interface {
	ScheduleRestart(ctx context.Context) bool
}

// RestartHandler handles the unauthenticated restart endpoint.
type RestartHandler struct {
	deps    RestartScheduler
	enabled bool
	logger  logger.Logger
}

// NewRestartHandler creates a new restart handler.
func NewRestartHandler(deps RestartScheduler, enabled bool) *RestartHandler {
	return &RestartHandler{deps: deps, enabled: enabled}
}

// HandleRestart handles POST /api/restart requests. The response is written
// and flushed before the exit timer is armed.
func (h *RestartHandler) HandleRestart(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		metrics.RecordRestartRejected()
		writeError(w, http.StatusForbidden, "Restart is disabled")
		return
	}

	writeJSON(w, http.StatusOK, types.Message{Message: RestartMessage})
	_ = http.NewResponseController(w).Flush()

	// Detach from the request so the timer is not tied to its cancellation.
	ctx := context.WithoutCancel(r.Context())
	if h.deps.ScheduleRestart(ctx) {
		metrics.RecordRestartScheduled()
		return
	}
	if h.logger != nil {
		h.logger.Info(ctx, "restart already scheduled", logger.String("request_id", RequestID(ctx)))
	}
}
