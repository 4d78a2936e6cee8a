package records

import (
	"context"
	"younv/metrics"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Adapter implements Store over a Backend. It translates field names using
// the per-collection tables and normalizes backend-native values on the way
// in. Errors are wrapped and returned; the adapter neither retries nor falls
// back.
type Adapter struct {
	backend Backend
	maps    *FieldMaps
	logger  *zap.Logger
}

func NewAdapter(backend Backend, maps *FieldMaps, logger *zap.Logger) *Adapter {
	if maps == nil {
		maps = DefaultFieldMaps()
	}
	return &Adapter{backend: backend, maps: maps, logger: logger.Named("records")}
}

func (a *Adapter) GetAll(ctx context.Context, collection string) ([]Record, error) {
	docs, err := a.backend.FindAll(ctx, collection)
	a.observe(collection, "get_all", err)
	if err != nil {
		return nil, errors.Wrapf(err, "get all %s", collection)
	}
	return a.fromExternalAll(collection, docs), nil
}

func (a *Adapter) GetWhere(ctx context.Context, collection, field string, value any) ([]Record, error) {
	external := a.maps.For(collection).External(field)
	docs, err := a.backend.FindWhere(ctx, collection, external, value)
	a.observe(collection, "get_where", err)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s where %s", collection, field)
	}
	return a.fromExternalAll(collection, docs), nil
}

func (a *Adapter) GetByID(ctx context.Context, collection, id string) (Record, error) {
	doc, err := a.backend.FindByID(ctx, collection, id)
	a.observe(collection, "get_by_id", err)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s/%s", collection, id)
	}
	return a.fromExternal(collection, doc), nil
}

func (a *Adapter) Create(ctx context.Context, collection string, data Record) (Record, error) {
	doc := a.maps.For(collection).ToExternal(data)
	created, err := a.backend.Insert(ctx, collection, doc)
	a.observe(collection, "create", err)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", collection)
	}

	a.logger.Debug("record created", zap.String("collection", collection), zap.String("record_id", created.ID()))
	return a.fromExternal(collection, created), nil
}

func (a *Adapter) Update(ctx context.Context, collection, id string, data Record) (Record, error) {
	doc := a.maps.For(collection).ToExternal(data)
	// a record read back and sent whole must not override the backend stamp
	for _, key := range []string{"id", "_id", "updatedAt"} {
		delete(doc, key)
	}

	updated, err := a.backend.Update(ctx, collection, id, doc)
	a.observe(collection, "update", err)
	if err != nil {
		return nil, errors.Wrapf(err, "update %s/%s", collection, id)
	}
	return a.fromExternal(collection, updated), nil
}

func (a *Adapter) Delete(ctx context.Context, collection, id string) error {
	err := a.backend.Delete(ctx, collection, id)
	a.observe(collection, "delete", err)
	if err != nil {
		return errors.Wrapf(err, "delete %s/%s", collection, id)
	}
	return nil
}

func (a *Adapter) fromExternal(collection string, doc Record) Record {
	return a.maps.For(collection).ToInternal(NormalizeRecord(doc))
}

func (a *Adapter) fromExternalAll(collection string, docs []Record) []Record {
	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, a.fromExternal(collection, doc))
	}
	return out
}

func (a *Adapter) observe(collection, operation string, err error) {
	status := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	metrics.StoreOperationsTotal.WithLabelValues(collection, operation, status).Inc()
}
