package report

import (
	"net/http"
	"younv/utils"
)

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	leads, medicos, err := h.leadsAndDoctors(r.Context())
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_BUILD_REPORT)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", BuildDashboard(leads, medicos, h.now(), h.location), 0)
}
