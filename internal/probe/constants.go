package probe

import "time"

// Routes exercised by the probe.
const (
	routeStatus    = "/api/status/v2"
	routeFiles     = "/api/files/v2"
	routeDownload  = "/api/download/v2"
	routeEndpoints = "/api/endpoints"
	routeRestart   = "/api/restart"
)

// Runner configuration constants.
const (
	DefaultWorkers     = 4
	DefaultTimeout     = 10 * time.Second
	DefaultRestartWait = 10 * time.Second
	restartPollEvery   = 100 * time.Millisecond
	// missingFileName is assumed absent from the files directory.
	missingFileName = "lightswitch-probe-missing.file"
)
