package migrations

import (
	"context"
	"time"
	"younv/database"
	"younv/records"
	"younv/schemas"
	"younv/utils"
)

// FieldPlan lists the fields a collection gained in later versions and how
// to default a whole record.
type FieldPlan struct {
	Needs       []string
	Materialize func(rec map[string]any, now time.Time)
}

func DefaultFieldPlans() map[string]FieldPlan {
	return map[string]FieldPlan{
		database.COLLECTION_LEADS: {
			Needs: schemas.LeadMigrationFields,
			Materialize: func(rec map[string]any, now time.Time) {
				schemas.MaterializeLead(rec, now)
			},
		},
		database.COLLECTION_TAGS: {
			Needs: []string{"ativo", "data_criacao"},
			Materialize: func(rec map[string]any, now time.Time) {
				if _, ok := rec["ativo"]; !ok {
					rec["ativo"] = true
				}
				if _, ok := rec["data_criacao"]; !ok {
					rec["data_criacao"] = utils.FormatISO(now)
				}
			},
		},
	}
}

// serverManaged fields are stamped by the backend and never rewritten.
var serverManaged = []string{"id", "created_at", "updated_at"}

// MigrateCollectionFields rewrites every record that lacks a field of the
// collection's plan, keeping present values and defaulting the rest. A
// field counts as missing only when its key is absent. Running it twice
// migrates nothing the second time.
func (r *Runner) MigrateCollectionFields(ctx context.Context, collection string) Result {
	plan, ok := r.plans[collection]
	if !ok {
		return Result{Success: false, Message: "Coleção sem plano de migração: " + collection, Errors: []RecordError{}}
	}

	now := r.now()
	return r.batch(ctx, MIGRATION_FIELDS, collection, func(rec records.Record) records.Record {
		if len(schemas.MissingFields(rec, plan.Needs)) == 0 {
			return nil
		}
		payload := rec.Clone()
		for _, field := range serverManaged {
			delete(payload, field)
		}
		plan.Materialize(payload, now)
		return payload
	})
}

// MigrateTags adds an empty tag list to leads that have none.
func (r *Runner) MigrateTags(ctx context.Context) Result {
	return r.batch(ctx, MIGRATION_TAGS, database.COLLECTION_LEADS, func(rec records.Record) records.Record {
		if rec.Has("tags") {
			return nil
		}
		return records.Record{"tags": []any{}}
	})
}
