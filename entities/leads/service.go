package leads

import (
	"context"
	"slices"
	"time"
	"younv/database"
	"younv/records"
	"younv/schemas"
	"younv/utils"

	"go.uber.org/zap"
)

// Service applies the lead rules on top of a tenant scoped store: payload
// validation, the partial-budget invariant, the duplicate phone check and
// default materialization.
type Service struct {
	store  records.Store
	now    func() time.Time
	logger *zap.Logger
}

func NewService(store records.Store, logger *zap.Logger) *Service {
	return &Service{store: store, now: time.Now, logger: logger}
}

func (s *Service) Create(ctx context.Context, data records.Record) (records.Record, error) {
	payload := data.Clone()
	delete(payload, "id")

	if _, err := utils.ValidateRecord[schemas.Lead](payload); err != nil {
		return nil, err
	}

	if err := s.CheckDuplicatePhone(ctx, payload.String("telefone"), ""); err != nil {
		return nil, err
	}
	if payload.String("tipo_visita") == "" {
		payload["tipo_visita"] = schemas.TIPO_VISITA_PRIMEIRA
	}

	schemas.MaterializeLead(payload, s.now())
	return s.store.Create(ctx, database.COLLECTION_LEADS, payload)
}

// Update validates the stored lead merged with data, so a payload only has
// to carry the fields it changes. Problems in fields it does not touch are
// not reported.
func (s *Service) Update(ctx context.Context, id string, data records.Record) (records.Record, error) {
	before, err := s.store.GetByID(ctx, database.COLLECTION_LEADS, id)
	if err != nil {
		return nil, err
	}

	payload := data.Clone()
	delete(payload, "id")

	merged := before.Clone()
	for k, v := range payload {
		merged[k] = v
	}
	if _, err := utils.ValidateRecord[schemas.Lead](merged); err != nil {
		if err := onlyTouched(err, payload); err != nil {
			return nil, err
		}
	}

	if phone, ok := payload["telefone"].(string); ok &&
		schemas.NormalizePhone(phone) != schemas.NormalizePhone(before.String("telefone")) {
		if err := s.CheckDuplicatePhone(ctx, phone, id); err != nil {
			return nil, err
		}
	}

	// Checked on the merged lead so stored violations are repaired by any edit.
	if merged.String("orcamento_fechado") != schemas.ORCAMENTO_PARCIAL &&
		(payload.Has("valor_fechado_parcial") || nonZero(merged["valor_fechado_parcial"])) {
		payload["valor_fechado_parcial"] = 0.0
	}

	return s.store.Update(ctx, database.COLLECTION_LEADS, id, payload)
}

// CheckDuplicatePhone scans the tenant's leads for another patient with the
// same digits. The check is advisory: it only sees what the store returns
// and is not backed by a unique index.
func (s *Service) CheckDuplicatePhone(ctx context.Context, phone, excludeID string) error {
	digits := schemas.NormalizePhone(phone)
	if len(digits) < schemas.MIN_PHONE_DIGITS {
		return nil
	}

	leads, err := s.store.GetAll(ctx, database.COLLECTION_LEADS)
	if err != nil {
		return err
	}
	for _, lead := range leads {
		if lead.ID() == excludeID {
			continue
		}
		if schemas.NormalizePhone(lead.String("telefone")) == digits {
			s.logger.Info("duplicate phone rejected", zap.String("record_id", lead.ID()))
			return utils.NewDuplicatePhone(lead.String("nome_paciente"))
		}
	}
	return nil
}

func nonZero(v any) bool {
	switch n := v.(type) {
	case float64:
		return n != 0
	case float32:
		return n != 0
	case int:
		return n != 0
	case int32:
		return n != 0
	case int64:
		return n != 0
	}
	return false
}

func onlyTouched(err error, payload records.Record) error {
	crmErr, ok := utils.AsCRMError(err)
	if !ok || len(crmErr.Fields) == 0 {
		return err
	}

	touched := map[string]string{}
	for field, msg := range crmErr.Fields {
		if payload.Has(field) {
			touched[field] = msg
		}
	}
	if len(touched) == 0 {
		return nil
	}
	return utils.NewValidationFailed(touched)
}

// FilterByTags keeps the leads carrying any of tagIDs, or all of them when
// matchAll is set.
func FilterByTags(leads []records.Record, tagIDs []string, matchAll bool) []records.Record {
	out := []records.Record{}
	for _, lead := range leads {
		tags := records.Strings(lead["tags"])
		matches := 0
		for _, id := range tagIDs {
			if slices.Contains(tags, id) {
				matches++
			}
		}
		if (matchAll && matches == len(tagIDs)) || (!matchAll && matches > 0) {
			out = append(out, lead)
		}
	}
	return out
}

// FilterByPeriod keeps leads whose contact date lies in [start, end].
func FilterByPeriod(leads []records.Record, start, end time.Time) []records.Record {
	out := []records.Record{}
	for _, lead := range leads {
		t, ok := utils.ParseDate(lead.String("data_registro_contato"))
		if !ok || t.Before(start) || t.After(end) {
			continue
		}
		out = append(out, lead)
	}
	return out
}
