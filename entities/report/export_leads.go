package report

import (
	"fmt"
	"net/http"
	"younv/utils"

	"go.uber.org/zap"
)

func (h *Handler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	leads, medicos, err := h.leadsAndDoctors(r.Context())
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_EXPORT_REPORT)
		return
	}

	now := h.now()
	data, err := ExportLeads(leads, medicos, BuildDashboard(leads, medicos, now, h.location), h.location)
	if err != nil {
		h.logger.Error("failed to export leads", zap.Error(err))
		utils.SendResponse(w, http.StatusInternalServerError, "", nil, utils.CANNOT_EXPORT_REPORT)
		return
	}

	filename := fmt.Sprintf("leads-%s.xlsx", now.In(h.location).Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
