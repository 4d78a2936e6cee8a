package clinics

import (
	"net/http"
	"younv/utils"
)

func (h *Handler) DeactivateOne(w http.ResponseWriter, r *http.Request) {
	clinic, err := h.service.Deactivate(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_UPDATE_RECORD)
		return
	}

	utils.SendResponse(w, http.StatusOK, "Clínica desativada", clinic, 0)
}
