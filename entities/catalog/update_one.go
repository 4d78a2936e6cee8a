package catalog

import (
	"net/http"
	"younv/utils"
)

func (h *Handler) UpdateOne(w http.ResponseWriter, r *http.Request) {
	data, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	delete(data, "id")

	id := r.PathValue("id")
	before, err := h.store.GetByID(r.Context(), h.collection, id)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_UPDATE_RECORD)
		return
	}

	merged := before.Clone()
	for k, v := range data {
		merged[k] = v
	}
	if err := h.validate(merged); err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_UPDATE_RECORD)
		return
	}

	item, err := h.store.Update(r.Context(), h.collection, id, data)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_UPDATE_RECORD)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", item, 0)
}
