package catalog

import (
	"net/http"
	"younv/records"
	"younv/utils"
)

// GetAll lists the collection for the clinic. ?ativo=true drops entries
// explicitly marked inactive.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.GetAll(r.Context(), h.collection)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_FIND_RECORDS)
		return
	}

	if r.URL.Query().Get("ativo") == "true" {
		active := []records.Record{}
		for _, item := range items {
			if ativo, ok := item["ativo"].(bool); !ok || ativo {
				active = append(active, item)
			}
		}
		items = active
	}

	utils.SendResponse(w, http.StatusOK, "", items, 0)
}
