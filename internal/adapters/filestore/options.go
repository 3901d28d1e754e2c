package filestore

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithDownloadPath sets the route embedded in every entry's download URL.
func WithDownloadPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.downloadPath = path
		}
	}
}
