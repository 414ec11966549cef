package handler

import (
	"log/slog"
	"net/http"

	"coursepanel/internal/domain/services"
	"coursepanel/internal/httputil"
)

// DatabaseHandler exposes store administration
type DatabaseHandler struct {
	databaseService services.DatabaseService
	allowReset      bool
	logger          *slog.Logger
}

// NewDatabaseHandler creates a new database handler. Reset is refused unless allowReset is set.
func NewDatabaseHandler(databaseService services.DatabaseService, allowReset bool, logger *slog.Logger) *DatabaseHandler {
	return &DatabaseHandler{
		databaseService: databaseService,
		allowReset:      allowReset,
		logger:          logger,
	}
}

type resetResponse struct {
	Message string                   `json:"message"`
	Status  *services.DatabaseStatus `json:"status"`
}

// Reset wipes the store and reloads the seed fixtures
// POST /api/db/reset
func (h *DatabaseHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !h.allowReset {
		httputil.RespondError(w, http.StatusForbidden, "database reset is disabled in production")
		return
	}

	status, err := h.databaseService.Reset(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Warn("database reset", "user_id", httputil.GetUserID(r))
	httputil.RespondJSON(w, http.StatusOK, resetResponse{Message: "database reset", Status: status})
}

// Status reports the backend and entity counts
// GET /api/db/status
func (h *DatabaseHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.databaseService.Status(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, status)
}
