package tags

import (
	"net/http"
	"younv/database"
	"younv/records"
	"younv/utils"
)

// GetAll lists the clinic's tags. ?ativo=true keeps only the active ones.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.GetAll(r.Context(), database.COLLECTION_TAGS)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_FIND_RECORDS)
		return
	}

	if r.URL.Query().Get("ativo") == "true" {
		active := []records.Record{}
		for _, tag := range tags {
			if tag.Bool("ativo") {
				active = append(active, tag)
			}
		}
		tags = active
	}

	utils.SendResponse(w, http.StatusOK, "", tags, 0)
}
