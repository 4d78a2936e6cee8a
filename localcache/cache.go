package localcache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
	"younv/audit"
	"younv/database"
	"younv/records"
	"younv/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Cache serves the record verbs from a KV store. It has no tenant scoping
// and no history diffing; writes only stamp the actor and timestamps.
//
// Ids are time-ordered UUIDs and are never checked against remote ids.
type Cache struct {
	kv       KV
	resolver *audit.Resolver
	now      func() time.Time
	logger   *zap.Logger

	// serializes read-modify-write of a collection array
	mu sync.Mutex
}

func NewCache(kv KV, resolver *audit.Resolver, logger *zap.Logger) *Cache {
	if resolver == nil {
		resolver = audit.DefaultResolver()
	}
	return &Cache{
		kv:       kv,
		resolver: resolver,
		now:      time.Now,
		logger:   logger.Named("localcache"),
	}
}

func Key(collection string) string {
	return KEY_PREFIX + collection
}

func (c *Cache) GetAll(ctx context.Context, collection string) ([]records.Record, error) {
	return c.load(ctx, collection)
}

func (c *Cache) GetWhere(ctx context.Context, collection, field string, value any) ([]records.Record, error) {
	all, err := c.load(ctx, collection)
	if err != nil {
		return nil, err
	}

	out := []records.Record{}
	for _, rec := range all {
		if current, ok := rec[field]; ok && audit.Equal(current, value, false) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *Cache) GetByID(ctx context.Context, collection, id string) (records.Record, error) {
	all, err := c.load(ctx, collection)
	if err != nil {
		return nil, err
	}
	if i := indexOf(all, id); i >= 0 {
		return all[i], nil
	}
	return nil, errors.Wrapf(records.ErrNotFound, "%s/%s not in local cache", collection, id)
}

func (c *Cache) Create(ctx context.Context, collection string, data records.Record) (records.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx, collection)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "generate local id")
	}

	actor := c.resolver.Resolve(ctx).Map()
	now := utils.FormatISO(c.now())

	rec := records.Record{}
	for k, v := range data.Clone() {
		if !records.IsUnset(v) {
			rec[k] = v
		}
	}
	rec["id"] = id.String()
	rec["created_by"] = actor
	rec["created_at"] = now
	rec["modified_by"] = actor
	rec["modified_at"] = now
	if collection == database.COLLECTION_LEADS && rec.String("data_registro_contato") == "" {
		rec["data_registro_contato"] = now
	}

	all = append(all, rec)
	if err := c.save(ctx, collection, all); err != nil {
		return nil, err
	}
	c.logger.Debug("record cached", zap.String("collection", collection), zap.String("record_id", rec.ID()))
	return rec, nil
}

func (c *Cache) Update(ctx context.Context, collection, id string, data records.Record) (records.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx, collection)
	if err != nil {
		return nil, err
	}

	i := indexOf(all, id)
	if i < 0 {
		return nil, errors.Wrapf(records.ErrNotFound, "%s/%s not in local cache", collection, id)
	}

	rec := all[i]
	for k, v := range data.Clone() {
		if k == "id" {
			continue
		}
		if records.IsUnset(v) {
			delete(rec, k)
			continue
		}
		rec[k] = v
	}
	rec["modified_by"] = c.resolver.Resolve(ctx).Map()
	rec["modified_at"] = utils.FormatISO(c.now())

	if err := c.save(ctx, collection, all); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes id from the collection. Unknown ids are not an error.
func (c *Cache) Delete(ctx context.Context, collection, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx, collection)
	if err != nil {
		return err
	}

	i := indexOf(all, id)
	if i < 0 {
		return nil
	}
	all = append(all[:i], all[i+1:]...)
	return c.save(ctx, collection, all)
}

func (c *Cache) load(ctx context.Context, collection string) ([]records.Record, error) {
	raw, ok, err := c.kv.Get(ctx, Key(collection))
	if err != nil {
		return nil, errors.Wrap(err, "load local cache")
	}
	if !ok || len(raw) == 0 {
		return []records.Record{}, nil
	}

	all := []records.Record{}
	if err := json.Unmarshal(raw, &all); err != nil {
		// a corrupt entry behaves like an empty collection
		c.logger.Warn("discarding unreadable cache entry", zap.String("collection", collection), zap.Error(err))
		return []records.Record{}, nil
	}
	return all, nil
}

func (c *Cache) save(ctx context.Context, collection string, all []records.Record) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return errors.Wrap(err, "encode local cache")
	}
	return errors.Wrap(c.kv.Set(ctx, Key(collection), raw), "save local cache")
}

func indexOf(all []records.Record, id string) int {
	for i, rec := range all {
		if rec.ID() == id {
			return i
		}
	}
	return -1
}
