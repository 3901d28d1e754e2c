package probe

import "os"

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`Lightswitch Probe
=================

Smoke test for a running lightswitch service. Calls every listed GET route,
downloads every listed file concurrently, and checks download error handling.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3000")
  -workers int
        Number of concurrent downloads (default 4)
  -timeout duration
        HTTP request timeout (default 10s)
  -restart
        Post /api/restart and wait for the service to stop answering
  -restart-wait duration
        Upper bound on waiting for the restart (default 10s)
  -verbose
        Log every passed check
  -help
        Show this help message

Examples:
  # Probe a local instance
  go run ./cmd/probe

  # Probe a remote instance and restart it
  go run ./cmd/probe -url http://files.internal:3000 -restart
`)
}
