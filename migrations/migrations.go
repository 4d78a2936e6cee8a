// Package migrations holds the one-shot batch jobs that bring stored
// records up to the current shape. They run against the unscoped record
// store and never abort on a single record failure.
package migrations

import (
	"context"
	"fmt"
	"time"
	"younv/audit"
	"younv/metrics"
	"younv/records"

	"go.uber.org/zap"
)

const (
	MIGRATION_FIELDS   = "fields"
	MIGRATION_TAGS     = "tags"
	MIGRATION_AUDIT    = "audit"
	MIGRATION_CLEANUP  = "audit_cleanup"
	MIGRATION_TENANT   = "tenant"
	MIGRATION_ROLLBACK = "tenant_rollback"

	DEFAULT_AUDIT_RETENTION_DAYS = 365
)

type Stats struct {
	Total    int `json:"total"`
	Migrated int `json:"migrated"`
	Errors   int `json:"errors"`
}

type RecordError struct {
	RecordID   string `json:"record_id"`
	RecordName string `json:"record_name,omitempty"`
	Error      string `json:"error"`
}

// Result summarizes one run. Success is false only when the collection could
// not be scanned; per-record failures are listed in Errors.
type Result struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Stats   Stats         `json:"stats"`
	Errors  []RecordError `json:"errors"`
}

// Runner executes migrations against store.
type Runner struct {
	store    records.Store
	plans    map[string]FieldPlan
	resolver *audit.Resolver
	now      func() time.Time
	logger   *zap.Logger
}

func NewRunner(store records.Store, logger *zap.Logger) *Runner {
	return &Runner{
		store:    store,
		plans:    DefaultFieldPlans(),
		resolver: audit.DefaultResolver(),
		now:      time.Now,
		logger:   logger.Named("migrations"),
	}
}

func (r *Runner) WithPlan(collection string, plan FieldPlan) *Runner {
	r.plans[collection] = plan
	return r
}

// batch drives the scan/decide/write loop shared by every migration. rewrite
// returns the update payload for a record, or nil when it needs nothing.
func (r *Runner) batch(ctx context.Context, migration, collection string, rewrite func(rec records.Record) records.Record) Result {
	logger := r.logger.With(zap.String("migration", migration), zap.String("collection", collection))

	recs, err := r.store.GetAll(ctx, collection)
	if err != nil {
		logger.Error("cannot scan collection", zap.Error(err))
		return Result{
			Success: false,
			Message: fmt.Sprintf("Erro na migração: %v", err),
			Stats:   Stats{Errors: 1},
			Errors:  []RecordError{},
		}
	}

	result := Result{Success: true, Stats: Stats{Total: len(recs)}, Errors: []RecordError{}}
	for _, rec := range recs {
		payload := rewrite(rec)
		if payload == nil {
			continue
		}

		if _, err := r.store.Update(ctx, collection, rec.ID(), payload); err != nil {
			logger.Warn("record migration failed", zap.String("record_id", rec.ID()), zap.Error(err))
			metrics.MigratedRecordsTotal.WithLabelValues(migration, collection, "error").Inc()
			result.Errors = append(result.Errors, RecordError{
				RecordID:   rec.ID(),
				RecordName: recordName(rec),
				Error:      err.Error(),
			})
			continue
		}
		metrics.MigratedRecordsTotal.WithLabelValues(migration, collection, "migrated").Inc()
		result.Stats.Migrated++
	}

	result.Stats.Errors = len(result.Errors)
	result.Message = fmt.Sprintf("Migração concluída! %d de %d registros atualizados, %d erros.",
		result.Stats.Migrated, result.Stats.Total, result.Stats.Errors)
	logger.Info("migration finished",
		zap.Int("total", result.Stats.Total),
		zap.Int("migrated", result.Stats.Migrated),
		zap.Int("errors", result.Stats.Errors),
	)
	return result
}

func recordName(rec records.Record) string {
	for _, field := range []string{"nome_paciente", "nome"} {
		if name := rec.String(field); name != "" {
			return name
		}
	}
	return ""
}
