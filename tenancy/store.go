package tenancy

import (
	"context"
	"younv/database"
	"younv/metrics"
	"younv/records"
	"younv/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	EVENT_CREATED = "created"
	EVENT_UPDATED = "updated"
	EVENT_DELETED = "deleted"

	TENANT_FIELD = "clinica_id"
)

// Event describes a successful write. It is published to realtime clients
// of the same clinic.
type Event struct {
	Action     string `json:"action"`
	Collection string `json:"collection"`
	ID         string `json:"id"`
	ClinicaID  string `json:"clinica_id,omitempty"`
}

type Notifier interface {
	Publish(event Event)
}

// Store filters and stamps every operation with the tenant of the context.
// A record of another tenant is reported exactly like a missing one.
//
// Remote failures are translated to RemoteUnavailable, logged once and the
// same operation is re-issued against the fallback store. The remote path is
// never retried.
type Store struct {
	remote   records.Store
	fallback records.Store
	global   map[string]bool
	notifier Notifier
	logger   *zap.Logger
}

// NewStore scopes remote. fallback may be nil, in which case remote failures
// are returned as RemoteUnavailable.
func NewStore(remote, fallback records.Store, logger *zap.Logger) *Store {
	return &Store{
		remote:   remote,
		fallback: fallback,
		global: map[string]bool{
			database.COLLECTION_CLINICAS:          true,
			database.COLLECTION_USUARIOS_CLINICAS: true,
		},
		logger: logger.Named("tenancy"),
	}
}

func (s *Store) WithNotifier(n Notifier) *Store {
	s.notifier = n
	return s
}

// IsGlobal reports whether collection has no tenant ownership.
func (s *Store) IsGlobal(collection string) bool {
	return s.global[collection]
}

func (s *Store) GetAll(ctx context.Context, collection string) ([]records.Record, error) {
	if s.IsGlobal(collection) {
		var out []records.Record
		err := s.do(ctx, collection, "get_all", func(store records.Store, _ bool) (err error) {
			out, err = store.GetAll(ctx, collection)
			return err
		})
		return out, err
	}

	tenant, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	var out []records.Record
	err = s.do(ctx, collection, "get_all", func(store records.Store, local bool) error {
		var recs []records.Record
		var err error
		if local {
			recs, err = store.GetAll(ctx, collection)
		} else {
			recs, err = store.GetWhere(ctx, collection, TENANT_FIELD, tenant)
		}
		if err != nil {
			return err
		}
		out = owned(recs, tenant, local)
		return nil
	})
	return out, err
}

func (s *Store) GetWhere(ctx context.Context, collection, field string, value any) ([]records.Record, error) {
	if s.IsGlobal(collection) {
		var out []records.Record
		err := s.do(ctx, collection, "get_where", func(store records.Store, _ bool) (err error) {
			out, err = store.GetWhere(ctx, collection, field, value)
			return err
		})
		return out, err
	}

	tenant, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	var out []records.Record
	err = s.do(ctx, collection, "get_where", func(store records.Store, local bool) error {
		recs, err := store.GetWhere(ctx, collection, field, value)
		if err != nil {
			return err
		}
		out = owned(recs, tenant, local)
		return nil
	})
	return out, err
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (records.Record, error) {
	if s.IsGlobal(collection) {
		var out records.Record
		err := s.do(ctx, collection, "get_by_id", func(store records.Store, _ bool) (err error) {
			out, err = store.GetByID(ctx, collection, id)
			return err
		})
		return out, err
	}

	tenant, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	var out records.Record
	err = s.do(ctx, collection, "get_by_id", func(store records.Store, local bool) (err error) {
		out, err = s.ownedByID(ctx, store, collection, id, tenant, local)
		return err
	})
	return out, err
}

// Create stamps the tenant on data, replacing any value sent by the caller.
func (s *Store) Create(ctx context.Context, collection string, data records.Record) (records.Record, error) {
	payload := data.Clone()
	if payload == nil {
		payload = records.Record{}
	}

	tenant := ""
	if !s.IsGlobal(collection) {
		var err error
		if tenant, err = s.tenant(ctx); err != nil {
			return nil, err
		}
		payload[TENANT_FIELD] = tenant
	}

	var out records.Record
	err := s.do(ctx, collection, "create", func(store records.Store, _ bool) (err error) {
		out, err = store.Create(ctx, collection, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(EVENT_CREATED, collection, out.ID(), tenant)
	return out, nil
}

// Update verifies the target belongs to the tenant before writing. The
// payload can never move the record to another tenant.
func (s *Store) Update(ctx context.Context, collection, id string, data records.Record) (records.Record, error) {
	payload := data.Clone()
	if payload == nil {
		payload = records.Record{}
	}

	tenant := ""
	if !s.IsGlobal(collection) {
		var err error
		if tenant, err = s.tenant(ctx); err != nil {
			return nil, err
		}
		payload[TENANT_FIELD] = tenant
	}

	var out records.Record
	err := s.do(ctx, collection, "update", func(store records.Store, local bool) (err error) {
		if tenant != "" {
			if _, err := s.ownedByID(ctx, store, collection, id, tenant, local); err != nil {
				return err
			}
		}
		out, err = store.Update(ctx, collection, id, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(EVENT_UPDATED, collection, id, tenant)
	return out, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	tenant := ""
	if !s.IsGlobal(collection) {
		var err error
		if tenant, err = s.tenant(ctx); err != nil {
			return err
		}
	}

	err := s.do(ctx, collection, "delete", func(store records.Store, local bool) error {
		if tenant != "" {
			if _, err := s.ownedByID(ctx, store, collection, id, tenant, local); err != nil {
				return err
			}
		}
		return store.Delete(ctx, collection, id)
	})
	if err != nil {
		return err
	}
	s.publish(EVENT_DELETED, collection, id, tenant)
	return nil
}

func (s *Store) tenant(ctx context.Context) (string, error) {
	tenant, ok := TenantFrom(ctx)
	if !ok {
		return "", utils.ErrNoActiveTenant
	}
	return tenant, nil
}

func (s *Store) ownedByID(ctx context.Context, store records.Store, collection, id, tenant string, local bool) (records.Record, error) {
	rec, err := store.GetByID(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if !belongs(rec, tenant, local) {
		return nil, utils.ErrNotFoundOrForeignTenant
	}
	return rec, nil
}

// do runs fn against the remote store and, when it is unavailable, once
// more against the fallback store.
func (s *Store) do(ctx context.Context, collection, op string, fn func(store records.Store, local bool) error) error {
	err := translate(fn(s.remote, false))
	if err == nil || !errors.Is(err, utils.ErrRemoteUnavailable) || s.fallback == nil {
		return err
	}

	tenant, _ := TenantFrom(ctx)
	s.logger.Warn("remote store unavailable, using local cache",
		zap.String("collection", collection),
		zap.String("operation", op),
		zap.String("clinica_id", tenant),
		zap.Error(err),
	)

	if localErr := translate(fn(s.fallback, true)); localErr != nil {
		metrics.FallbacksTotal.WithLabelValues(collection, op, "error").Inc()
		if errors.Is(localErr, utils.ErrRemoteUnavailable) {
			return err
		}
		return localErr
	}
	metrics.FallbacksTotal.WithLabelValues(collection, op, "success").Inc()
	return nil
}

func (s *Store) publish(action, collection, id, tenant string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(Event{Action: action, Collection: collection, ID: id, ClinicaID: tenant})
}

// translate maps data-layer errors onto the error taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := utils.AsCRMError(err); ok {
		return err
	}
	if errors.Is(err, records.ErrNotFound) {
		return utils.ErrNotFoundOrForeignTenant
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return utils.NewRemoteUnavailable(err)
}

// belongs reports whether rec is owned by tenant. Local records written
// before the tenant was stamped have no owner and are visible to all.
func belongs(rec records.Record, tenant string, local bool) bool {
	owner, _ := rec[TENANT_FIELD].(string)
	if owner == "" {
		return local
	}
	return owner == tenant
}

func owned(recs []records.Record, tenant string, local bool) []records.Record {
	out := make([]records.Record, 0, len(recs))
	for _, rec := range recs {
		if belongs(rec, tenant, local) {
			out = append(out, rec)
		}
	}
	return out
}
