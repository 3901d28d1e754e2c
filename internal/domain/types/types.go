// Package types contains the records exchanged between the service layers.
package types

// EndpointDescriptor describes one declared HTTP route.
type EndpointDescriptor struct {
	Method      string `json:"method"`
	Route       string `json:"route"`
	Description string `json:"description"`
}

// FileEntry is one entry of the files directory listing.
type FileEntry struct {
	Name        string `json:"name"`
	DownloadURL string `json:"downloadUrl"`
}

// Status is the body of the status endpoint.
type Status struct {
	StartTime string `json:"startTime"`
}

// Health is the body of the lightswitch endpoint.
type Health struct {
	NetCoreVersion  string `json:"netCoreVersion"`
	APICreationDate string `json:"apiCreationDate"`
	Health          string `json:"health"`
}

// Launch is the body of the launch endpoint.
type Launch struct {
	Launch bool `json:"launch"`
}

// Message is a single-message body, used by the restart endpoint.
type Message struct {
	Message string `json:"message"`
}
