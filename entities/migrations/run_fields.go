package migrations

import (
	"net/http"
)

// RunFields backfills the missing fields of {collection}.
func (h *Handler) RunFields(w http.ResponseWriter, r *http.Request) {
	result := h.runner.MigrateCollectionFields(r.Context(), r.PathValue("collection"))
	h.send(w, result.Success, result.Message, result)
}

func (h *Handler) RunTags(w http.ResponseWriter, r *http.Request) {
	result := h.runner.MigrateTags(r.Context())
	h.send(w, result.Success, result.Message, result)
}
