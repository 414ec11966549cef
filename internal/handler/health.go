package handler

import (
	"net/http"
	"time"

	"coursepanel/internal/httputil"
)

// Health reports liveness
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
