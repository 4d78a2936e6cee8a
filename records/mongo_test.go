package records

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

func TestMongoBackend_Integration(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if testing.Short() || uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	db := client.Database("younv_test_" + uuid.NewString()[:8])
	t.Cleanup(func() { _ = db.Drop(ctx) })

	adapter := NewAdapter(NewMongoBackend(db, 10*time.Second), DefaultFieldMaps(), zap.NewNop())

	created, err := adapter.Create(ctx, "leads", Record{"nome_paciente": "Ana", "clinica_id": "c1", "tags": []any{}})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())
	assert.IsType(t, "", created["created_at"])

	found, err := adapter.GetWhere(ctx, "leads", "clinica_id", "c1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ana", found[0]["nome_paciente"])

	updated, err := adapter.Update(ctx, "leads", created.ID(), Record{"status": "Convertido", "clinica_id": Unset})
	require.NoError(t, err)
	assert.Equal(t, "Convertido", updated["status"])
	assert.NotContains(t, updated, "clinica_id")

	require.NoError(t, adapter.Delete(ctx, "leads", created.ID()))
	_, err = adapter.GetByID(ctx, "leads", created.ID())
	assert.True(t, errors.Is(err, ErrNotFound))
}
