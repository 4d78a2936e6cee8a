package catalog

import (
	"net/http"
	"younv/database"
	"younv/utils"
)

func (h *Handler) CreateOne(w http.ResponseWriter, r *http.Request) {
	data, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	delete(data, "id")

	if err := h.validate(data); err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_CREATE_RECORD)
		return
	}
	if !data.Has("ativo") {
		data["ativo"] = true
	}
	if h.collection == database.COLLECTION_MEDICOS && data.String("data_cadastro") == "" {
		data["data_cadastro"] = utils.FormatISO(h.now())
	}

	item, err := h.store.Create(r.Context(), h.collection, data)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_CREATE_RECORD)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "", item, 0)
}
