package migrations

import (
	"context"
	"math"
	"younv/records"
	"younv/utils"

	"go.uber.org/zap"
)

const (
	FIELD_MIGRATED    = "migrated"
	FIELD_MIGRATED_AT = "migrated_at"
	FIELD_CLINICA_ID  = "clinica_id"
)

type TenantResult struct {
	Success     bool              `json:"success"`
	ClinicaID   string            `json:"clinica_id,omitempty"`
	Collections map[string]Result `json:"collections"`
}

// MigrateToTenant assigns every record without an owner in collections to
// clinicID. Records already owned by a clinic are skipped, so the run can
// be repeated. A collection that cannot be scanned does not stop the others.
func (r *Runner) MigrateToTenant(ctx context.Context, collections []string, clinicID string) TenantResult {
	now := utils.FormatISO(r.now())
	out := TenantResult{Success: true, ClinicaID: clinicID, Collections: map[string]Result{}}

	for _, collection := range collections {
		result := r.batch(ctx, MIGRATION_TENANT, collection, func(rec records.Record) records.Record {
			if rec.String(FIELD_CLINICA_ID) != "" {
				return nil
			}
			return records.Record{
				FIELD_CLINICA_ID:  clinicID,
				FIELD_MIGRATED:    true,
				FIELD_MIGRATED_AT: now,
			}
		})
		out.Collections[collection] = result
		out.Success = out.Success && result.Success
	}
	return out
}

type TenantStatus struct {
	Total      int `json:"total"`
	Migrated   int `json:"migrated"`
	Pending    int `json:"pending"`
	Percentage int `json:"percentage"`
}

// TenantMigrationStatus counts, per collection, the records that already
// have an owning clinic.
func (r *Runner) TenantMigrationStatus(ctx context.Context, collections []string) (map[string]TenantStatus, error) {
	status := map[string]TenantStatus{}
	for _, collection := range collections {
		recs, err := r.store.GetAll(ctx, collection)
		if err != nil {
			return nil, err
		}

		s := TenantStatus{Total: len(recs)}
		for _, rec := range recs {
			if rec.String(FIELD_CLINICA_ID) != "" {
				s.Migrated++
			}
		}
		s.Pending = s.Total - s.Migrated
		if s.Total > 0 {
			s.Percentage = int(math.Round(float64(s.Migrated) / float64(s.Total) * 100))
		}
		status[collection] = s
	}
	return status, nil
}

// RollbackTenant removes the owner stamped by MigrateToTenant. Records that
// were created with an owner are not touched.
func (r *Runner) RollbackTenant(ctx context.Context, collections []string) TenantResult {
	out := TenantResult{Success: true, Collections: map[string]Result{}}

	for _, collection := range collections {
		result := r.batch(ctx, MIGRATION_ROLLBACK, collection, func(rec records.Record) records.Record {
			if migrated, _ := rec[FIELD_MIGRATED].(bool); !migrated {
				return nil
			}
			return records.Record{
				FIELD_CLINICA_ID:  records.Unset,
				FIELD_MIGRATED:    records.Unset,
				FIELD_MIGRATED_AT: records.Unset,
			}
		})
		out.Collections[collection] = result
		out.Success = out.Success && result.Success
	}

	r.logger.Info("tenant migration rolled back", zap.Strings("collections", collections))
	return out
}
