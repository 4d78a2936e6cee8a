package audit

import (
	"context"
	"time"
	"younv/metrics"
	"younv/records"
	"younv/schemas"
	"younv/utils"

	"go.uber.org/zap"
)

// Composer stamps actor identity and appends history entries on create and
// update of collections that have a policy. Reads, deletes and collections
// without a policy pass straight through.
//
// Updates diff against the record read immediately before writing, so two
// interleaved edits of the same record can lose one history entry.
type Composer struct {
	next     records.Store
	policies map[string]Policy
	resolver *Resolver
	now      func() time.Time
	logger   *zap.Logger
}

func NewComposer(next records.Store, resolver *Resolver, logger *zap.Logger) *Composer {
	if resolver == nil {
		resolver = DefaultResolver()
	}
	return &Composer{
		next:     next,
		policies: map[string]Policy{},
		resolver: resolver,
		now:      time.Now,
		logger:   logger.Named("audit"),
	}
}

func (c *Composer) WithPolicy(collection string, policy Policy) *Composer {
	c.policies[collection] = policy
	return c
}

func (c *Composer) Policy(collection string) (Policy, bool) {
	p, ok := c.policies[collection]
	return p, ok
}

func (c *Composer) GetAll(ctx context.Context, collection string) ([]records.Record, error) {
	return c.next.GetAll(ctx, collection)
}

func (c *Composer) GetWhere(ctx context.Context, collection, field string, value any) ([]records.Record, error) {
	return c.next.GetWhere(ctx, collection, field, value)
}

func (c *Composer) GetByID(ctx context.Context, collection, id string) (records.Record, error) {
	return c.next.GetByID(ctx, collection, id)
}

func (c *Composer) Delete(ctx context.Context, collection, id string) error {
	return c.next.Delete(ctx, collection, id)
}

func (c *Composer) Create(ctx context.Context, collection string, data records.Record) (records.Record, error) {
	if _, ok := c.policies[collection]; !ok {
		return c.next.Create(ctx, collection, data)
	}

	actor := c.resolver.Resolve(ctx)
	now := utils.FormatISO(c.now())

	payload := data.Clone()
	payload["created_by"] = actor.Map()
	payload["created_at"] = now
	payload["modified_by"] = actor.Map()
	payload["modified_at"] = now
	payload["audit_trail"] = []any{schemas.AuditEntry{
		Timestamp: now,
		User:      actor,
		Action:    schemas.AUDIT_ACTION_CREATION,
		Changes:   []schemas.FieldChange{},
	}.Map()}

	created, err := c.next.Create(ctx, collection, payload)
	if err != nil {
		return nil, err
	}
	metrics.AuditEntriesTotal.WithLabelValues(collection, schemas.AUDIT_ACTION_CREATION).Inc()
	return created, nil
}

func (c *Composer) Update(ctx context.Context, collection, id string, data records.Record) (records.Record, error) {
	policy, ok := c.policies[collection]
	if !ok {
		return c.next.Update(ctx, collection, id, data)
	}

	before, err := c.next.GetByID(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	actor := c.resolver.Resolve(ctx)
	now := utils.FormatISO(c.now())

	payload := data.Clone()
	for _, field := range []string{"created_by", "created_at", "audit_trail"} {
		delete(payload, field)
	}

	changes, unwatched := Diff(before, payload, policy)
	c.flagUnwatched(collection, id, actor, unwatched)

	trail := []any{}
	if existing, ok := before["audit_trail"].([]any); ok {
		trail = append(trail, existing...)
	}
	trail = append(trail, schemas.AuditEntry{
		Timestamp: now,
		User:      actor,
		Action:    schemas.AUDIT_ACTION_EDIT,
		Changes:   changes,
	}.Map())

	payload["modified_by"] = actor.Map()
	payload["modified_at"] = now
	payload["audit_trail"] = trail

	updated, err := c.next.Update(ctx, collection, id, payload)
	if err != nil {
		return nil, err
	}
	metrics.AuditEntriesTotal.WithLabelValues(collection, schemas.AUDIT_ACTION_EDIT).Inc()
	return updated, nil
}

// flagUnwatched surfaces changes that are persisted without a history entry
// so the watch-list can be reviewed.
func (c *Composer) flagUnwatched(collection, id string, actor schemas.Actor, fields []string) {
	if len(fields) == 0 {
		return
	}
	for _, field := range fields {
		metrics.AuditUnwatchedChangesTotal.WithLabelValues(collection, field).Inc()
	}
	c.logger.Info("unwatched fields changed",
		zap.String("collection", collection),
		zap.String("record_id", id),
		zap.String("actor_id", actor.ID),
		zap.Strings("fields", fields),
	)
}
