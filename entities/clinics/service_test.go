package clinics

import (
	"context"
	"testing"
	"younv/records"
	"younv/schemas"
	"younv/tenancy"
	"younv/utils"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() *Service {
	adapter := records.NewAdapter(records.NewMemoryBackend(), records.DefaultFieldMaps(), zap.NewNop())
	return NewService(tenancy.NewStore(adapter, nil, zap.NewNop()), zap.NewNop())
}

func TestValidate(t *testing.T) {
	err := Validate(records.Record{"nome": "AB", "email": "nope", "telefone": "123"})

	require.True(t, errors.Is(err, utils.ErrValidationFailed))
	crmErr, _ := utils.AsCRMError(err)
	assert.Len(t, crmErr.Fields, 3)

	assert.NoError(t, Validate(records.Record{"nome": "Clínica Sol", "email": "a@b.com", "telefone": "1133334444"}))
}

func TestService_Lifecycle(t *testing.T) {
	service := newTestService()

	clinic, err := service.Create(context.Background(), records.Record{"nome": "Clínica Sol", "email": "a@b.com", "telefone": "1133334444"})
	require.NoError(t, err)
	assert.Equal(t, true, clinic["ativo"])
	assert.Equal(t, schemas.CLINIC_PLAN_BASIC, clinic["plano"])

	def, err := service.CreateDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Clínica Padrão", def["nome"])

	ctx := tenancy.WithTenant(context.Background(), clinic.ID())

	_, err = service.Update(ctx, clinic.ID(), records.Record{"email": "invalid"})
	assert.True(t, errors.Is(err, utils.ErrValidationFailed))

	updated, err := service.Update(ctx, clinic.ID(), records.Record{"nome": "Clínica Lua"})
	require.NoError(t, err)
	assert.Equal(t, "Clínica Lua", updated["nome"])

	own, err := service.ListOwn(ctx)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, clinic.ID(), own[0].ID())

	_, err = service.Deactivate(ctx, clinic.ID())
	require.NoError(t, err)
	own, err = service.ListOwn(ctx)
	require.NoError(t, err)
	assert.Empty(t, own)

	none, err := service.ListOwn(context.Background())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestService_ForeignClinicIsHidden(t *testing.T) {
	service := newTestService()
	bg := context.Background()

	a, err := service.Create(bg, records.Record{"nome": "Clínica A", "email": "a@a.com", "telefone": "1133334444"})
	require.NoError(t, err)
	b, err := service.Create(bg, records.Record{"nome": "Clínica B", "email": "b@b.com", "telefone": "1155556666"})
	require.NoError(t, err)

	ctx := tenancy.WithTenant(bg, a.ID())

	_, err = service.Get(ctx, b.ID())
	assert.True(t, errors.Is(err, utils.ErrNotFoundOrForeignTenant))
	_, err = service.Update(ctx, b.ID(), records.Record{"nome": "Tomada"})
	assert.True(t, errors.Is(err, utils.ErrNotFoundOrForeignTenant))
	_, err = service.Deactivate(ctx, b.ID())
	assert.True(t, errors.Is(err, utils.ErrNotFoundOrForeignTenant))

	listed, err := service.ListOwn(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, a.ID(), listed[0].ID())

	stored, err := service.Get(tenancy.WithTenant(bg, b.ID()), b.ID())
	require.NoError(t, err)
	assert.Equal(t, "Clínica B", stored["nome"])
	assert.Equal(t, true, stored["ativo"])

	_, err = service.Get(bg, b.ID())
	assert.True(t, errors.Is(err, utils.ErrNoActiveTenant))
}
