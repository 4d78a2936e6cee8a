package clinics

import (
	"context"
	"encoding/json"
	"time"
	"younv/database"
	"younv/records"
	"younv/schemas"
	"younv/tenancy"
	"younv/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Service struct {
	store  records.Store
	now    func() time.Time
	logger *zap.Logger
}

func NewService(store records.Store, logger *zap.Logger) *Service {
	return &Service{store: store, now: time.Now, logger: logger}
}

// Validate checks a clinic payload: nome with at least 3 characters, a valid
// email and a telefone with at least 10 characters.
func Validate(data records.Record) error {
	_, err := utils.ValidateRecord[schemas.Clinic](data)
	return err
}

func (s *Service) Create(ctx context.Context, data records.Record) (records.Record, error) {
	payload := data.Clone()
	delete(payload, "id")

	if err := Validate(payload); err != nil {
		return nil, err
	}
	if !payload.Has("ativo") {
		payload["ativo"] = true
	}
	if payload.String("plano") == "" {
		payload["plano"] = schemas.CLINIC_PLAN_BASIC
	}
	payload["data_criacao"] = utils.FormatISO(s.now())

	clinic, err := s.store.Create(ctx, database.COLLECTION_CLINICAS, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("clinic created", zap.String("clinica_id", clinic.ID()))
	return clinic, nil
}

// CreateDefault creates the placeholder clinic used when legacy data is
// moved into the multitenant layout without a clinic of its own.
func (s *Service) CreateDefault(ctx context.Context) (records.Record, error) {
	raw, err := json.Marshal(schemas.DefaultClinic())
	if err != nil {
		return nil, errors.Wrap(err, "encode default clinic")
	}
	data := records.Record{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "decode default clinic")
	}
	return s.Create(ctx, data)
}

// ListOwn returns the caller's clinic while it is active. A user without a
// clinic gets an empty list.
func (s *Service) ListOwn(ctx context.Context) ([]records.Record, error) {
	tenant, ok := tenancy.TenantFrom(ctx)
	if !ok {
		return []records.Record{}, nil
	}

	clinic, err := s.store.GetByID(ctx, database.COLLECTION_CLINICAS, tenant)
	if errors.Is(err, utils.ErrNotFoundOrForeignTenant) {
		return []records.Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !clinic.Bool("ativo") {
		return []records.Record{}, nil
	}
	return []records.Record{clinic}, nil
}

func (s *Service) Get(ctx context.Context, id string) (records.Record, error) {
	if err := own(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, database.COLLECTION_CLINICAS, id)
}

func (s *Service) Update(ctx context.Context, id string, data records.Record) (records.Record, error) {
	if err := own(ctx, id); err != nil {
		return nil, err
	}

	payload := data.Clone()
	delete(payload, "id")
	delete(payload, "data_criacao")

	before, err := s.store.GetByID(ctx, database.COLLECTION_CLINICAS, id)
	if err != nil {
		return nil, err
	}

	merged := before.Clone()
	for k, v := range payload {
		merged[k] = v
	}
	if err := Validate(merged); err != nil {
		return nil, err
	}

	payload["data_atualizacao"] = utils.FormatISO(s.now())
	return s.store.Update(ctx, database.COLLECTION_CLINICAS, id, payload)
}

// Deactivate marks the clinic inactive. Its records are kept.
func (s *Service) Deactivate(ctx context.Context, id string) (records.Record, error) {
	if err := own(ctx, id); err != nil {
		return nil, err
	}

	clinic, err := s.store.Update(ctx, database.COLLECTION_CLINICAS, id, records.Record{
		"ativo":            false,
		"data_atualizacao": utils.FormatISO(s.now()),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("clinic deactivated", zap.String("clinica_id", id))
	return clinic, nil
}

// own allows access only to the clinic the caller is scoped to. Another
// clinic is reported exactly like a missing one.
func own(ctx context.Context, id string) error {
	tenant, ok := tenancy.TenantFrom(ctx)
	if !ok {
		return utils.ErrNoActiveTenant
	}
	if tenant != id {
		return utils.ErrNotFoundOrForeignTenant
	}
	return nil
}
