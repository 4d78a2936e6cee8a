package leads

import (
	"net/http"
	"younv/audit"
	"younv/database"
	"younv/records"
	"younv/schemas"
	"younv/utils"
)

type LeadHistory struct {
	Lead             records.Record         `json:"lead"`
	Summary          audit.Summary          `json:"audit_summary"`
	FormattedHistory []audit.FormattedEntry `json:"formatted_history"`
}

// GetHistory returns a lead with its summarized and formatted audit trail.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	lead, err := h.store.GetByID(r.Context(), database.COLLECTION_LEADS, r.PathValue("id"))
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_FIND_RECORDS)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", LeadHistory{
		Lead:             lead,
		Summary:          audit.Summarize(lead),
		FormattedHistory: audit.FormatHistory(schemas.DecodeAuditTrail(lead["audit_trail"]), h.policy, h.location),
	}, 0)
}

// GetAllWithAudit lists the clinic's leads, each with its audit summary
// under audit_summary.
func (h *Handler) GetAllWithAudit(w http.ResponseWriter, r *http.Request) {
	leads, err := h.store.GetAll(r.Context(), database.COLLECTION_LEADS)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_FIND_RECORDS)
		return
	}

	out := make([]records.Record, 0, len(leads))
	for _, lead := range leads {
		enriched := lead.Clone()
		enriched["audit_summary"] = audit.Summarize(lead)
		out = append(out, enriched)
	}

	utils.SendResponse(w, http.StatusOK, "", out, 0)
}
