package handler

import (
	"log/slog"
	"net/http"

	"prospekt/internal/httputil"
	"prospekt/internal/storage"
)

// FilesHandler serves stored artifacts (renders, heroes, gallery
// images) by their relative store paths.
type FilesHandler struct {
	store  storage.Store
	logger *slog.Logger
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(store storage.Store, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{store: store, logger: logger}
}

// Get streams one stored artifact. The store rejects any path that
// escapes its root.
// GET /files/{path...}
func (h *FilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	if path == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file path is required")
		return
	}

	absolute, err := h.store.Resolve(path)
	if err != nil {
		handleError(w, err)
		return
	}

	http.ServeFile(w, r, absolute)
}
