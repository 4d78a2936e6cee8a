package clinics

import (
	"net/http"
	"younv/utils"
)

// GetAll lists the caller's clinic while it is active.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.service.ListOwn(r.Context())
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_FIND_RECORDS)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", clinics, 0)
}
