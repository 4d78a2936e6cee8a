package leads

import (
	"net/http"
	"younv/database"
	"younv/utils"
)

func (h *Handler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), database.COLLECTION_LEADS, r.PathValue("id")); err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_DELETE_RECORD)
		return
	}

	utils.SendResponse(w, http.StatusNoContent, "", nil, 0)
}
