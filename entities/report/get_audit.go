package report

import (
	"net/http"
	"strconv"
	"younv/audit"
	"younv/database"
	"younv/utils"
)

const DEFAULT_USER_CHANGES_LIMIT = 50

// GetAuditReport aggregates lead history in the ?start/?end period.
func (h *Handler) GetAuditReport(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.period(r)
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.INVALID_REQUEST_DATA)
		return
	}

	leads, err := h.store.GetAll(r.Context(), database.COLLECTION_LEADS)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_BUILD_REPORT)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", audit.BuildReport(leads, h.policy, start, end), 0)
}

func (h *Handler) GetAuditStats(w http.ResponseWriter, r *http.Request) {
	leads, err := h.store.GetAll(r.Context(), database.COLLECTION_LEADS)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_BUILD_REPORT)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", audit.ComputeStats(leads, h.policy, h.now()), 0)
}

// GetUserChanges lists the latest changes made by one user, newest first.
func (h *Handler) GetUserChanges(w http.ResponseWriter, r *http.Request) {
	limit := DEFAULT_USER_CHANGES_LIMIT
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.INVALID_REQUEST_DATA)
			return
		}
		limit = n
	}

	leads, err := h.store.GetAll(r.Context(), database.COLLECTION_LEADS)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_BUILD_REPORT)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", audit.ChangesByUser(leads, h.policy, r.PathValue("user_id"), limit), 0)
}
