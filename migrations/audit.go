package migrations

import (
	"context"
	"fmt"
	"younv/audit"
	"younv/records"
	"younv/schemas"
	"younv/utils"

	"go.uber.org/zap"
)

const MIGRATION_ACTOR_ID = "migration_system"

func migrationActor() schemas.Actor {
	return schemas.Actor{ID: MIGRATION_ACTOR_ID, Nome: "Sistema de Migração", Email: "sistema@migracao.com"}
}

// MigrateAudit gives records created before auditing existed a creator and
// a creation entry. Records that already have created_by or a history are
// left alone.
func (r *Runner) MigrateAudit(ctx context.Context, collection string) Result {
	actor := r.resolver.Resolve(ctx)
	if actor.ID == schemas.SYSTEM_ACTOR_ID {
		actor = migrationActor()
	}
	now := utils.FormatISO(r.now())

	return r.batch(ctx, MIGRATION_AUDIT, collection, func(rec records.Record) records.Record {
		if rec["created_by"] != nil || rec["audit_trail"] != nil {
			return nil
		}

		createdAt := rec.String("data_registro_contato")
		if createdAt == "" {
			createdAt = now
		}
		entry := schemas.AuditEntry{
			Timestamp: createdAt,
			User:      actor,
			Action:    schemas.AUDIT_ACTION_CREATION,
			Changes:   []schemas.FieldChange{},
		}
		return records.Record{
			"created_at":  createdAt,
			"created_by":  actor.Map(),
			"audit_trail": []any{entry.Map()},
		}
	})
}

type CleanupResult struct {
	Success          bool          `json:"success"`
	Message          string        `json:"message"`
	RecordsProcessed int           `json:"records_processed"`
	EntriesRemoved   int           `json:"entries_removed"`
	CutoffDate       string        `json:"cutoff_date"`
	Errors           []RecordError `json:"errors"`
}

// CleanAuditHistory drops history entries older than daysToKeep, always
// keeping the first entry and every creation entry.
func (r *Runner) CleanAuditHistory(ctx context.Context, collection string, daysToKeep int) CleanupResult {
	if daysToKeep <= 0 {
		daysToKeep = DEFAULT_AUDIT_RETENTION_DAYS
	}
	cutoff := r.now().AddDate(0, 0, -daysToKeep)

	removedBy := map[string]int{}
	result := r.batch(ctx, MIGRATION_CLEANUP, collection, func(rec records.Record) records.Record {
		entries := schemas.DecodeAuditTrail(rec["audit_trail"])
		if len(entries) == 0 {
			return nil
		}
		kept := audit.TrimHistory(entries, cutoff)
		if len(kept) == len(entries) {
			return nil
		}
		removedBy[rec.ID()] = len(entries) - len(kept)

		trail := make([]any, 0, len(kept))
		for _, e := range kept {
			trail = append(trail, e.Map())
		}
		return records.Record{"audit_trail": trail}
	})

	for _, failed := range result.Errors {
		delete(removedBy, failed.RecordID)
	}
	removed := 0
	for _, n := range removedBy {
		removed += n
	}

	cleanup := CleanupResult{
		Success:          result.Success,
		Message:          result.Message,
		RecordsProcessed: result.Stats.Migrated,
		EntriesRemoved:   removed,
		CutoffDate:       utils.FormatISO(cutoff),
		Errors:           result.Errors,
	}
	if result.Success {
		cleanup.Message = fmt.Sprintf("Limpeza concluída! %d registros removidos de %d registros.", removed, result.Stats.Migrated)
	}
	r.logger.Info("audit history trimmed",
		zap.String("collection", collection),
		zap.Time("cutoff", cutoff),
		zap.Int("entries_removed", removed),
	)
	return cleanup
}
