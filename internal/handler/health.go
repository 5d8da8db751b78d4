package handler

import (
	"net/http"

	"prospekt/internal/httputil"
)

// Health reports liveness.
// GET /health
func Health(w http.ResponseWriter, _ *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
