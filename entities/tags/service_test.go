package tags

import (
	"context"
	"testing"
	"time"
	"younv/audit"
	"younv/database"
	"younv/records"
	"younv/schemas"
	"younv/tenancy"
	"younv/utils"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() (*Service, records.Store) {
	backend := records.NewMemoryBackend()
	adapter := records.NewAdapter(backend, records.DefaultFieldMaps(), zap.NewNop())
	composer := audit.NewComposer(adapter, nil, zap.NewNop()).WithPolicy(database.COLLECTION_LEADS, audit.DefaultLeadPolicy())
	store := tenancy.NewStore(composer, nil, zap.NewNop())

	service := NewService(store, zap.NewNop())
	service.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return service, store
}

func TestService_CreateDefaultsActiveAndDated(t *testing.T) {
	service, _ := newTestService()
	ctx := tenancy.WithTenant(context.Background(), "clinic-a")

	tag, err := service.Create(ctx, records.Record{"nome": "VIP", "cor": "#10b981"})
	require.NoError(t, err)

	assert.Equal(t, true, tag["ativo"])
	assert.Equal(t, "2024-05-01T10:00:00.000Z", tag["data_criacao"])
	assert.Equal(t, "clinic-a", tag["clinica_id"])

	_, err = service.Create(ctx, records.Record{"cor": "not-a-color"})
	require.True(t, errors.Is(err, utils.ErrValidationFailed))
	crmErr, _ := utils.AsCRMError(err)
	assert.Contains(t, crmErr.Fields, "nome")
	assert.Contains(t, crmErr.Fields, "cor")
}

func TestService_CreateDefaultsIsRepeatable(t *testing.T) {
	service, store := newTestService()
	ctx := tenancy.WithTenant(context.Background(), "clinic-a")

	_, err := service.Create(ctx, records.Record{"nome": "vip"})
	require.NoError(t, err)

	created, err := service.CreateDefaults(ctx)
	require.NoError(t, err)
	assert.Len(t, created, len(schemas.DefaultTags)-1)

	again, err := service.CreateDefaults(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	all, err := store.GetAll(ctx, database.COLLECTION_TAGS)
	require.NoError(t, err)
	assert.Len(t, all, len(schemas.DefaultTags))
}

func TestService_DeleteStripsTagFromLeads(t *testing.T) {
	service, store := newTestService()
	ctx := tenancy.WithTenant(context.Background(), "clinic-a")

	vip, err := service.Create(ctx, records.Record{"nome": "VIP"})
	require.NoError(t, err)
	urgent, err := service.Create(ctx, records.Record{"nome": "Urgente"})
	require.NoError(t, err)

	tagged, err := store.Create(ctx, database.COLLECTION_LEADS, records.Record{"nome_paciente": "Ana", "tags": []any{vip.ID(), urgent.ID()}})
	require.NoError(t, err)
	untagged, err := store.Create(ctx, database.COLLECTION_LEADS, records.Record{"nome_paciente": "Bia", "tags": []any{}})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, vip.ID()))

	lead, err := store.GetByID(ctx, database.COLLECTION_LEADS, tagged.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{urgent.ID()}, records.Strings(lead["tags"]))
	history := schemas.DecodeAuditTrail(lead["audit_trail"])
	require.Len(t, history, 2)
	assert.Equal(t, "tags", history[1].Changes[0].Field)

	lead, err = store.GetByID(ctx, database.COLLECTION_LEADS, untagged.ID())
	require.NoError(t, err)
	assert.Len(t, schemas.DecodeAuditTrail(lead["audit_trail"]), 1)

	_, err = store.GetByID(ctx, database.COLLECTION_TAGS, vip.ID())
	assert.True(t, errors.Is(err, utils.ErrNotFoundOrForeignTenant))
}

func TestService_DeleteForeignTag(t *testing.T) {
	service, _ := newTestService()

	tag, err := service.Create(tenancy.WithTenant(context.Background(), "clinic-a"), records.Record{"nome": "VIP"})
	require.NoError(t, err)

	err = service.Delete(tenancy.WithTenant(context.Background(), "clinic-b"), tag.ID())
	assert.True(t, errors.Is(err, utils.ErrNotFoundOrForeignTenant))
}
