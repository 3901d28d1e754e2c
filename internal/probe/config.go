package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Workers     int           // Concurrent downloads
	Timeout     time.Duration // HTTP request timeout
	Restart     bool          // Post a restart and wait for the service to go away
	RestartWait time.Duration // Upper bound on waiting for the service to stop
	Verbose     bool          // Enable verbose logging
}

// Endpoint mirrors an entry of GET /api/endpoints.
type Endpoint struct {
	Method      string `json:"method"`
	Route       string `json:"route"`
	Description string `json:"description"`
}

// FileEntry mirrors an entry of GET /api/files/v2.
type FileEntry struct {
	Name        string `json:"name"`
	DownloadURL string `json:"downloadUrl"`
}

// Check is the outcome of a single probe step.
type Check struct {
	Name     string
	Passed   bool
	Detail   string
	Err      error
	Duration time.Duration
}

// Report collects probe results.
type Report struct {
	Checks          []Check
	FilesListed     int
	FilesDownloaded int
	BytesDownloaded uint64
	StartTime       time.Time
	Duration        time.Duration
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}
