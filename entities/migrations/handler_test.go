package migrations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"younv/database"
	"younv/middlewares"
	"younv/migrations"
	"younv/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClinics struct {
	calls int
}

func (f *fakeClinics) CreateDefault(context.Context) (records.Record, error) {
	f.calls++
	return records.Record{"id": "default-clinic"}, nil
}

func newTestMux(t *testing.T) (*http.ServeMux, records.Store, *fakeClinics) {
	t.Helper()
	store := records.NewAdapter(records.NewMemoryBackend(), records.DefaultFieldMaps(), zap.NewNop())
	clinics := &fakeClinics{}
	h := NewHandler(migrations.NewRunner(store, zap.NewNop()), clinics, zap.NewNop())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /migrations/fields/{collection}", h.RunFields)
	mux.HandleFunc("POST /migrations/audit/{collection}/cleanup", h.RunAuditCleanup)
	mux.HandleFunc("POST /migrations/tenant", h.RunTenant)
	mux.HandleFunc("GET /migrations/tenant/status", h.GetTenantStatus)
	mux.HandleFunc("POST /migrations/tenant/rollback", h.RunTenantRollback)
	return mux, store, clinics
}

func call(t *testing.T, mux http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestHandler_Fields(t *testing.T) {
	mux, store, _ := newTestMux(t)
	_, err := store.Create(context.Background(), database.COLLECTION_LEADS, records.Record{"nome_paciente": "Ana"})
	require.NoError(t, err)

	code, body := call(t, mux, http.MethodPost, "/migrations/fields/leads", "")
	require.Equal(t, http.StatusOK, code)
	stats := body["data"].(map[string]any)["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["migrated"])

	code, _ = call(t, mux, http.MethodPost, "/migrations/fields/unknown", "")
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestHandler_TenantWithDefaultClinic(t *testing.T) {
	mux, store, clinics := newTestMux(t)
	legacy, err := store.Create(context.Background(), database.COLLECTION_LEADS, records.Record{"nome_paciente": "Ana"})
	require.NoError(t, err)

	code, body := call(t, mux, http.MethodPost, "/migrations/tenant", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, clinics.calls)
	assert.Equal(t, "default-clinic", body["data"].(map[string]any)["clinica_id"])

	rec, err := store.GetByID(context.Background(), database.COLLECTION_LEADS, legacy.ID())
	require.NoError(t, err)
	assert.Equal(t, "default-clinic", rec["clinica_id"])

	code, body = call(t, mux, http.MethodGet, "/migrations/tenant/status", "")
	require.Equal(t, http.StatusOK, code)
	leads := body["data"].(map[string]any)[database.COLLECTION_LEADS].(map[string]any)
	assert.EqualValues(t, 1, leads["migrated"])

	code, _ = call(t, mux, http.MethodPost, "/migrations/tenant", `{"clinica_id":"clinic-a"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, clinics.calls)

	code, _ = call(t, mux, http.MethodPost, "/migrations/tenant/rollback", "")
	require.Equal(t, http.StatusOK, code)
	rec, err = store.GetByID(context.Background(), database.COLLECTION_LEADS, legacy.ID())
	require.NoError(t, err)
	assert.NotContains(t, rec, "clinica_id")
}

func TestHandler_CleanupRejectsBadDays(t *testing.T) {
	mux, _, _ := newTestMux(t)

	code, _ := call(t, mux, http.MethodPost, "/migrations/audit/leads/cleanup?days=abc", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, mux, http.MethodPost, "/migrations/audit/leads/cleanup?days=30", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestHandler_AdminRoutesRefuseOtherUsers(t *testing.T) {
	mux, store, _ := newTestMux(t)
	ctx := context.Background()
	owned, err := store.Create(ctx, database.COLLECTION_LEADS, records.Record{
		"nome_paciente": "Ana",
		"clinica_id":    "clinic-b",
		"migrated":      true,
	})
	require.NoError(t, err)

	admin := middlewares.Admin([]string{"1"}, zap.NewNop())(mux)
	as := func(userID string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := middlewares.AuthUser{ID: userID, Name: "Usuário " + userID, Email: userID + "@clinica.com"}
			admin.ServeHTTP(w, r.WithContext(middlewares.WithUser(r.Context(), user)))
		})
	}

	for _, path := range []string{
		"/migrations/tenant/rollback",
		"/migrations/tenant",
		"/migrations/fields/leads",
		"/migrations/audit/leads/cleanup",
	} {
		code, _ := call(t, as("42"), http.MethodPost, path, `{"clinica_id":"clinic-a"}`)
		assert.Equal(t, http.StatusForbidden, code, path)
	}

	rec, err := store.GetByID(ctx, database.COLLECTION_LEADS, owned.ID())
	require.NoError(t, err)
	assert.Equal(t, "clinic-b", rec["clinica_id"])

	code, _ := call(t, as("1"), http.MethodPost, "/migrations/tenant/rollback", "")
	require.Equal(t, http.StatusOK, code)
	rec, err = store.GetByID(ctx, database.COLLECTION_LEADS, owned.ID())
	require.NoError(t, err)
	assert.NotContains(t, rec, "clinica_id")
}
