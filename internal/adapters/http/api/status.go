package api

import (
	"net/http"
	"time"

	"github.com/okian/lightswitch/internal/domain/types"
)

// isoMillis matches the ISO-8601 form with millisecond precision, e.g.
// 2024-05-29T10:15:00.000Z.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// StatusDependencies exposes the recorded start time.
type StatusDependencies interface {
	StartTime() time.Time
}

// StatusHandler handles status requests.
type StatusHandler struct {
	deps StatusDependencies
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(deps StatusDependencies) *StatusHandler {
	return &StatusHandler{deps: deps}
}

// HandleStatus handles GET /api/status/v2 requests.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, types.Status{
		StartTime: FormatStartTime(h.deps.StartTime()),
	})
}

// FormatStartTime renders t as a UTC ISO-8601 timestamp with milliseconds.
func FormatStartTime(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
