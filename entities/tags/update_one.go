package tags

import (
	"net/http"
	"younv/utils"
)

func (h *Handler) UpdateOne(w http.ResponseWriter, r *http.Request) {
	data, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	tag, err := h.service.Update(r.Context(), r.PathValue("id"), data)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_UPDATE_RECORD)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", tag, 0)
}
