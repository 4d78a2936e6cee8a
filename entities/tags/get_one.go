package tags

import (
	"net/http"
	"younv/database"
	"younv/utils"
)

func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	tag, err := h.store.GetByID(r.Context(), database.COLLECTION_TAGS, r.PathValue("id"))
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_FIND_RECORDS)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", tag, 0)
}
