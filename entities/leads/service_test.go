package leads

import (
	"context"
	"testing"
	"time"
	"younv/audit"
	"younv/records"
	"younv/schemas"
	"younv/tenancy"
	"younv/utils"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newScopedStore() records.Store {
	backend := records.NewMemoryBackend()
	adapter := records.NewAdapter(backend, records.DefaultFieldMaps(), zap.NewNop())
	composer := audit.NewComposer(adapter, nil, zap.NewNop()).WithPolicy("leads", audit.DefaultLeadPolicy())
	return tenancy.NewStore(composer, nil, zap.NewNop())
}

func newTestService() *Service {
	service := NewService(newScopedStore(), zap.NewNop())
	service.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return service
}

func TestService_AnaScenario(t *testing.T) {
	service := newTestService()
	ctx := tenancy.WithTenant(context.Background(), "clinic-a")

	created, err := service.Create(ctx, records.Record{"nome_paciente": "Ana", "telefone": "11999990000", "status": "Lead"})
	require.NoError(t, err)

	assert.Equal(t, "Lead", created["status"])
	assert.EqualValues(t, 0, created["valor_orcado"])
	assert.Equal(t, []any{}, created["tags"])
	assert.Equal(t, schemas.TIPO_VISITA_PRIMEIRA, created["tipo_visita"])
	assert.Equal(t, "clinic-a", created["clinica_id"])
	history := schemas.DecodeAuditTrail(created["audit_trail"])
	require.Len(t, history, 1)
	assert.Equal(t, schemas.AUDIT_ACTION_CREATION, history[0].Action)

	updated, err := service.Update(ctx, created.ID(), records.Record{"status": "Convertido"})
	require.NoError(t, err)

	history = schemas.DecodeAuditTrail(updated["audit_trail"])
	require.Len(t, history, 2)
	assert.Equal(t, []schemas.FieldChange{{Field: "status", OldValue: "Lead", NewValue: "Convertido"}}, history[1].Changes)
}

func TestService_PartialBudgetInvariant(t *testing.T) {
	service := newTestService()
	ctx := tenancy.WithTenant(context.Background(), "clinic-a")

	created, err := service.Create(ctx, records.Record{
		"nome_paciente":         "Ana",
		"telefone":              "11999990000",
		"orcamento_fechado":     "Total",
		"valor_fechado_parcial": 500,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, created["valor_fechado_parcial"])

	partial, err := service.Update(ctx, created.ID(), records.Record{"orcamento_fechado": "Parcial", "valor_fechado_parcial": 250})
	require.NoError(t, err)
	assert.EqualValues(t, 250, partial["valor_fechado_parcial"])

	onlyValue, err := service.Update(ctx, created.ID(), records.Record{"valor_fechado_parcial": 300})
	require.NoError(t, err)
	assert.EqualValues(t, 300, onlyValue["valor_fechado_parcial"], "stored budget status is still Parcial")

	closed, err := service.Update(ctx, created.ID(), records.Record{"orcamento_fechado": "Não"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, closed["valor_fechado_parcial"])
}

func TestService_UpdateRepairsStoredPartialValue(t *testing.T) {
	service := newTestService()
	ctx := tenancy.WithTenant(context.Background(), "clinic-a")

	legacy, err := service.store.Create(ctx, "leads", records.Record{
		"nome_paciente":         "Bruno",
		"telefone":              "11988887777",
		"orcamento_fechado":     schemas.ORCAMENTO_TOTAL,
		"valor_fechado_parcial": 500.0,
	})
	require.NoError(t, err)

	updated, err := service.Update(ctx, legacy.ID(), records.Record{"observacao_geral": "retorno em maio"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, updated["valor_fechado_parcial"])
	assert.Equal(t, "retorno em maio", updated["observacao_geral"])

	partial, err := service.store.Create(ctx, "leads", records.Record{
		"nome_paciente":         "Carla",
		"telefone":              "11977776666",
		"orcamento_fechado":     schemas.ORCAMENTO_PARCIAL,
		"valor_fechado_parcial": 300.0,
	})
	require.NoError(t, err)

	updated, err = service.Update(ctx, partial.ID(), records.Record{"observacao_geral": "ok"})
	require.NoError(t, err)
	assert.EqualValues(t, 300, updated["valor_fechado_parcial"])
}

func TestService_DuplicatePhone(t *testing.T) {
	service := newTestService()
	ctxA := tenancy.WithTenant(context.Background(), "clinic-a")
	ctxB := tenancy.WithTenant(context.Background(), "clinic-b")

	ana, err := service.Create(ctxA, records.Record{"nome_paciente": "Ana", "telefone": "(11) 99999-0000"})
	require.NoError(t, err)

	_, err = service.Create(ctxA, records.Record{"nome_paciente": "Outra", "telefone": "11 999990000"})
	require.True(t, errors.Is(err, utils.ErrDuplicatePhone))
	assert.Contains(t, err.Error(), "Ana")

	_, err = service.Create(ctxB, records.Record{"nome_paciente": "Outra", "telefone": "11999990000"})
	assert.NoError(t, err, "other clinics are not scanned")

	bia, err := service.Create(ctxA, records.Record{"nome_paciente": "Bia", "telefone": "21988887777"})
	require.NoError(t, err)

	_, err = service.Update(ctxA, bia.ID(), records.Record{"telefone": "11999990000"})
	assert.True(t, errors.Is(err, utils.ErrDuplicatePhone))

	_, err = service.Update(ctxA, ana.ID(), records.Record{"telefone": "(11) 99999-0000", "status": "Agendado"})
	assert.NoError(t, err, "keeping its own phone is not a duplicate")
}

func TestService_Validation(t *testing.T) {
	service := newTestService()
	ctx := tenancy.WithTenant(context.Background(), "clinic-a")

	_, err := service.Create(ctx, records.Record{"telefone": "123"})
	require.True(t, errors.Is(err, utils.ErrValidationFailed))
	crmErr, _ := utils.AsCRMError(err)
	assert.Contains(t, crmErr.Fields, "nome_paciente")
	assert.Contains(t, crmErr.Fields, "telefone")

	created, err := service.Create(ctx, records.Record{"nome_paciente": "Ana", "telefone": "11999990000"})
	require.NoError(t, err)

	_, err = service.Update(ctx, created.ID(), records.Record{"status": "Inexistente"})
	assert.True(t, errors.Is(err, utils.ErrValidationFailed))
}

func TestService_UpdateIgnoresProblemsInUntouchedFields(t *testing.T) {
	store := newScopedStore()
	service := NewService(store, zap.NewNop())
	ctx := tenancy.WithTenant(context.Background(), "clinic-a")

	legacy, err := store.Create(ctx, "leads", records.Record{"nome_paciente": "Legado", "telefone": "123"})
	require.NoError(t, err)

	updated, err := service.Update(ctx, legacy.ID(), records.Record{"status": "Agendado"})
	require.NoError(t, err)
	assert.Equal(t, "Agendado", updated["status"])
}

func TestFilterByTags(t *testing.T) {
	leads := []records.Record{
		{"id": "1", "tags": []any{"a", "b"}},
		{"id": "2", "tags": []any{"b"}},
		{"id": "3"},
	}

	anyOf := FilterByTags(leads, []string{"a", "b"}, false)
	allOf := FilterByTags(leads, []string{"a", "b"}, true)

	assert.Len(t, anyOf, 2)
	require.Len(t, allOf, 1)
	assert.Equal(t, "1", allOf[0].ID())
}

func TestFilterByPeriod(t *testing.T) {
	leads := []records.Record{
		{"id": "1", "data_registro_contato": "2024-03-01T10:00:00.000Z"},
		{"id": "2", "data_registro_contato": "2024-04-01T10:00:00.000Z"},
		{"id": "3", "data_registro_contato": ""},
	}

	got := FilterByPeriod(leads,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID())
}
