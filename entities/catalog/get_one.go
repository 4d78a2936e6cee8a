package catalog

import (
	"net/http"
	"younv/utils"
)

func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetByID(r.Context(), h.collection, r.PathValue("id"))
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_FIND_RECORDS)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", item, 0)
}
