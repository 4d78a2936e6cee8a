package leads

import (
	"net/http"
	"younv/utils"
)

func (h *Handler) CreateOne(w http.ResponseWriter, r *http.Request) {
	data, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	lead, err := h.service.Create(r.Context(), data)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_CREATE_RECORD)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "", lead, 0)
}
