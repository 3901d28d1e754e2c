package api

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/okian/lightswitch/internal/adapters/filestore"
	"github.com/okian/lightswitch/pkg/logger"
	"github.com/okian/lightswitch/pkg/metrics"
)

// DownloadDependencies opens files from the files directory.
type DownloadDependencies interface {
	OpenFile(ctx context.Context, name string) (*filestore.File, error)
}

// DownloadHandler streams files as attachments.
type DownloadHandler struct {
	deps   DownloadDependencies
	logger logger.Logger
}

// NewDownloadHandler creates a new download handler.
func NewDownloadHandler(deps DownloadDependencies) *DownloadHandler {
	return &DownloadHandler{deps: deps}
}

// HandleDownload handles GET /api/download/v2?name=<file> requests.
func (h *DownloadHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	const op = "api.download"

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "File name is required")
		return
	}

	f, err := h.deps.OpenFile(r.Context(), name)
	if err != nil {
		if errors.Is(err, filestore.ErrInvalidName) {
			metrics.RecordDownloadRejected()
		} else {
			metrics.RecordDownloadMiss()
		}
		if h.logger != nil {
			h.logger.Warn(r.Context(), "file failed to download",
				logger.String("name", name),
				logger.Error(WrapKind(op, ErrNotFound, err)),
			)
		}
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, f.Name, f.ModTime, f)

	metrics.RecordDownload(f.Size)
	if h.logger != nil {
		h.logger.Debug(r.Context(), "file downloaded",
			logger.String("name", f.Name),
			logger.String("size", humanize.IBytes(uint64(f.Size))),
		)
	}
}
