package api

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/okian/lightswitch/internal/domain/types"
	"github.com/okian/lightswitch/pkg/logger"
	"github.com/okian/lightswitch/pkg/metrics"
)

// FilesDependencies lists the files directory.
type FilesDependencies interface {
	ListFiles(ctx context.Context) ([]types.FileEntry, error)
}

// FilesHandler handles the file listing endpoint.
type FilesHandler struct {
	deps   FilesDependencies
	logger logger.Logger
}

// NewFilesHandler creates a new files handler.
func NewFilesHandler(deps FilesDependencies) *FilesHandler {
	return &FilesHandler{deps: deps}
}

// HandleListFiles handles GET /api/files/v2 requests.
//
// On failure the OS error text is returned to the client as-is; it may
// include the absolute directory path.
func (h *FilesHandler) HandleListFiles(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_files"

	entries, err := h.deps.ListFiles(r.Context())
	if err != nil {
		metrics.RecordFileListError()
		if h.logger != nil {
			h.logger.Error(r.Context(), "failed to read directory", logger.Error(Wrap(op, err)))
		}
		writeErrorTitle(w, http.StatusInternalServerError, "Unable to read files directory", osMessage(err))
		return
	}
	metrics.RecordFilesListed(len(entries))
	if entries == nil {
		entries = []types.FileEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// osMessage returns the innermost filesystem error text.
func osMessage(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Error()
	}
	return err.Error()
}
