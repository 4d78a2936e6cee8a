package migrations

import (
	"net/http"
	"strconv"
	"younv/migrations"
	"younv/utils"
)

// RunAudit gives the records of {collection} without any history a creation
// entry attributed to the caller.
func (h *Handler) RunAudit(w http.ResponseWriter, r *http.Request) {
	result := h.runner.MigrateAudit(r.Context(), r.PathValue("collection"))
	h.send(w, result.Success, result.Message, result)
}

// RunAuditCleanup trims history older than ?days (365 by default).
func (h *Handler) RunAuditCleanup(w http.ResponseWriter, r *http.Request) {
	days := migrations.DEFAULT_AUDIT_RETENTION_DAYS
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.INVALID_REQUEST_DATA)
			return
		}
		days = n
	}

	result := h.runner.CleanAuditHistory(r.Context(), r.PathValue("collection"), days)
	h.send(w, result.Success, result.Message, result)
}
