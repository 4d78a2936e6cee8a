package leads

import (
	"net/http"
	"younv/database"
	"younv/utils"
)

// GetByPeriod lists leads contacted between ?start and ?end (inclusive). A
// date without time for end covers the whole day.
func (h *Handler) GetByPeriod(w http.ResponseWriter, r *http.Request) {
	start, ok := utils.ParseDate(r.URL.Query().Get("start"))
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Data inicial inválida", nil, 0)
		return
	}
	endParam := r.URL.Query().Get("end")
	end, ok := utils.ParseDate(endParam)
	if !ok {
		utils.SendResponse(w, http.StatusBadRequest, "Data final inválida", nil, 0)
		return
	}
	if len(endParam) == len("2006-01-02") {
		end = utils.EndOfDay(end)
	}

	leads, err := h.store.GetAll(r.Context(), database.COLLECTION_LEADS)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_FIND_RECORDS)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", FilterByPeriod(leads, start, end), 0)
}
