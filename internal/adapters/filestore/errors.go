package filestore

import "errors"

// Sentinel kinds for file store errors.
var (
	ErrUnreadable  = errors.New("unable to read files directory")
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("file name escapes files directory")
)
