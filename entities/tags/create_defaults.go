package tags

import (
	"net/http"
	"younv/utils"
)

func (h *Handler) CreateDefaults(w http.ResponseWriter, r *http.Request) {
	created, err := h.service.CreateDefaults(r.Context())
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_CREATE_RECORD)
		return
	}

	utils.SendResponse(w, http.StatusCreated, "Tags padrão criadas", created, 0)
}
