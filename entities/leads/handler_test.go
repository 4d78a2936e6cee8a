package leads

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"younv/audit"
	"younv/schemas"
	"younv/tenancy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMux() http.Handler {
	h := NewHandler(newScopedStore(), audit.DefaultLeadPolicy(), zap.NewNop())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/leads", h.GetAll)
	mux.HandleFunc("GET /v1/leads/{id}", h.GetOne)
	mux.HandleFunc("GET /v1/leads/{id}/history", h.GetHistory)
	mux.HandleFunc("POST /v1/leads", h.CreateOne)
	mux.HandleFunc("PATCH /v1/leads/{id}", h.UpdateOne)
	mux.HandleFunc("DELETE /v1/leads/{id}", h.DeleteOne)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if clinic := r.Header.Get("X-Test-Clinic"); clinic != "" {
			r = r.WithContext(tenancy.WithTenant(r.Context(), clinic))
		}
		mux.ServeHTTP(w, r)
	})
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, handler http.Handler, method, path, clinic, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if clinic != "" {
		req.Header.Set("X-Test-Clinic", clinic)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	env := envelope{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHandler_LeadLifecycle(t *testing.T) {
	mux := newTestMux()

	rec, env := do(t, mux, http.MethodPost, "/v1/leads", "clinic-a",
		`{"nome_paciente":"Ana","telefone":"11999990000","status":"Lead","tags":["vip"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := map[string]any{}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id := created["id"].(string)

	rec, _ = do(t, mux, http.MethodPatch, "/v1/leads/"+id, "clinic-a", `{"status":"Convertido"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, mux, http.MethodGet, "/v1/leads/"+id+"/history", "clinic-a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history := LeadHistory{}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Equal(t, 2, history.Summary.TotalChanges)
	require.Len(t, history.FormattedHistory, 2)
	assert.Equal(t, "Alterou Status", history.FormattedHistory[0].ActionDescription)
	assert.Equal(t, schemas.AUDIT_ACTION_CREATION, history.FormattedHistory[1].Action)

	rec, env = do(t, mux, http.MethodGet, "/v1/leads?tags=vip,other", "clinic-a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := []map[string]any{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	rec, _ = do(t, mux, http.MethodGet, "/v1/leads?tags=vip,other&match=all", "clinic-a", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, mux, http.MethodDelete, "/v1/leads/"+id, "clinic-a", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, mux, http.MethodGet, "/v1/leads/"+id, "clinic-a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ErrorMapping(t *testing.T) {
	mux := newTestMux()

	rec, _ := do(t, mux, http.MethodGet, "/v1/leads", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, mux, http.MethodPost, "/v1/leads", "clinic-a", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, mux, http.MethodPost, "/v1/leads", "clinic-a", `{"telefone":"11999990000"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := map[string]string{}
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Contains(t, fields, "nome_paciente")

	rec, _ = do(t, mux, http.MethodPost, "/v1/leads", "clinic-a", `{"nome_paciente":"Ana","telefone":"11999990000"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, env = do(t, mux, http.MethodPost, "/v1/leads", "clinic-a", `{"nome_paciente":"Bia","telefone":"(11) 99999-0000"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, env.Message, "Ana")

	rec, env = do(t, mux, http.MethodPost, "/v1/leads", "clinic-b", `{"nome_paciente":"Caio","telefone":"21999990000"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	foreign := map[string]any{}
	require.NoError(t, json.Unmarshal(env.Data, &foreign))

	rec, _ = do(t, mux, http.MethodPatch, "/v1/leads/"+foreign["id"].(string), "clinic-a", `{"status":"Perdido"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
