package migrations

import (
	"encoding/json"
	"io"
	"net/http"
	"younv/utils"

	"go.uber.org/zap"
)

type tenantRequest struct {
	ClinicaID string `json:"clinica_id"`
}

// RunTenant assigns legacy records to the clinic in the body. With no clinic
// given a default clinic is created first.
func (h *Handler) RunTenant(w http.ResponseWriter, r *http.Request) {
	req := tenantRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.INVALID_REQUEST_DATA)
		return
	}

	clinicID := req.ClinicaID
	if clinicID == "" {
		clinic, err := h.clinics.CreateDefault(r.Context())
		if err != nil {
			utils.SendError(w, h.logger, err, utils.CANNOT_RUN_MIGRATION)
			return
		}
		clinicID = clinic.ID()
		h.logger.Info("default clinic created for tenant migration", zap.String("clinica_id", clinicID))
	}

	result := h.runner.MigrateToTenant(r.Context(), h.collections, clinicID)
	h.send(w, result.Success, "", result)
}

func (h *Handler) GetTenantStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.runner.TenantMigrationStatus(r.Context(), h.collections)
	if err != nil {
		utils.SendError(w, h.logger, err, utils.CANNOT_RUN_MIGRATION)
		return
	}

	utils.SendResponse(w, http.StatusOK, "", status, 0)
}

func (h *Handler) RunTenantRollback(w http.ResponseWriter, r *http.Request) {
	result := h.runner.RollbackTenant(r.Context(), h.collections)
	h.send(w, result.Success, "", result)
}
