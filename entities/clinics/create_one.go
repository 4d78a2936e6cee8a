package clinics

import (
	"net/http"
	"younv/utils"
)

func (h *Handler) CreateOne(w http.ResponseWriter, r *http.Request) {
	data, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	clinic, err := h.service.Create(r.Context(), data)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_CREATE_RECORD)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "", clinic, 0)
}

func (h *Handler) CreateDefault(w http.ResponseWriter, r *http.Request) {
	clinic, err := h.service.CreateDefault(r.Context())
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_CREATE_RECORD)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "Clínica padrão criada", clinic, 0)
}
