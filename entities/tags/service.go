package tags

import (
	"context"
	"slices"
	"strings"
	"time"
	"younv/database"
	"younv/records"
	"younv/schemas"
	"younv/utils"

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

func (s *Service) Create(ctx context.Context, data records.Record) (records.Record, error) {
	payload := data.Clone()
	delete(payload, "id")

	if _, err := utils.ValidateRecord[schemas.Tag](payload); err != nil {
		return nil, err
	}
	if !payload.Has("ativo") {
		payload["ativo"] = true
	}
	if payload.String("data_criacao") == "" {
		payload["data_criacao"] = utils.FormatISO(s.now())
	}

	return s.store.Create(ctx, database.COLLECTION_TAGS, payload)
}

func (s *Service) Update(ctx context.Context, id string, data records.Record) (records.Record, error) {
	payload := data.Clone()
	delete(payload, "id")
	delete(payload, "data_criacao")

	if payload.Has("nome") || payload.Has("cor") {
		before, err := s.store.GetByID(ctx, database.COLLECTION_TAGS, id)
		if err != nil {
			return nil, err
		}
		merged := before.Clone()
		for k, v := range payload {
			merged[k] = v
		}
		if _, err := utils.ValidateRecord[schemas.Tag](merged); err != nil {
			return nil, err
		}
	}

	return s.store.Update(ctx, database.COLLECTION_TAGS, id, payload)
}

// CreateDefaults adds the standard tag set to the clinic. Names the clinic
// already has are skipped, so running it twice creates nothing new.
func (s *Service) CreateDefaults(ctx context.Context) ([]records.Record, error) {
	existing, err := s.store.GetAll(ctx, database.COLLECTION_TAGS)
	if err != nil {
		return nil, err
	}

	names := map[string]bool{}
	for _, tag := range existing {
		names[strings.ToLower(tag.String("nome"))] = true
	}

	created := []records.Record{}
	for _, tag := range schemas.DefaultTags {
		if names[strings.ToLower(tag.Nome)] {
			continue
		}
		rec, err := s.Create(ctx, records.Record{"nome": tag.Nome, "cor": tag.Cor, "categoria": tag.Categoria})
		if err != nil {
			return created, err
		}
		created = append(created, rec)
	}
	return created, nil
}

// Delete removes the tag id from every lead of the clinic and then deletes
// the tag. Leads that fail to update are logged and left with the stale id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetByID(ctx, database.COLLECTION_TAGS, id); err != nil {
		return err
	}

	leads, err := s.store.GetAll(ctx, database.COLLECTION_LEADS)
	if err != nil {
		return err
	}
	for _, lead := range leads {
		tags := records.Strings(lead["tags"])
		if !slices.Contains(tags, id) {
			continue
		}

		kept := []any{}
		for _, t := range tags {
			if t != id {
				kept = append(kept, t)
			}
		}
		if _, err := s.store.Update(ctx, database.COLLECTION_LEADS, lead.ID(), records.Record{"tags": kept}); err != nil {
			s.logger.Warn("failed to strip tag from lead",
				zap.String("record_id", lead.ID()), zap.String("tag_id", id), zap.Error(err))
		}
	}

	return s.store.Delete(ctx, database.COLLECTION_TAGS, id)
}
