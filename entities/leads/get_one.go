package leads

import (
	"net/http"
	"younv/database"
	"younv/utils"
)

func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	lead, err := h.store.GetByID(r.Context(), database.COLLECTION_LEADS, r.PathValue("id"))
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_FIND_RECORDS)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", lead, 0)
}
