package clinics

import (
	"net/http"
	"younv/utils"
)

func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	clinic, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_FIND_RECORDS)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", clinic, 0)
}
