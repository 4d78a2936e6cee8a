package leads

import (
	"net/http"
	"strings"
	"younv/database"
	"younv/utils"
)

// GetAll lists the clinic's leads. ?tags=a,b narrows the list to leads with
// any of the tags, or all of them with ?match=all.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	leads, err := h.store.GetAll(r.Context(), database.COLLECTION_LEADS)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_FIND_RECORDS)
		return
	}

	if tags := r.URL.Query().Get("tags"); tags != "" {
		ids := []string{}
		for _, id := range strings.Split(tags, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		leads = FilterByTags(leads, ids, r.URL.Query().Get("match") == "all")
	}

	utils.SendResponse(w, http.StatusOK, "", leads, 0)
}
