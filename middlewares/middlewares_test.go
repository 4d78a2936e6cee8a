package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"younv/audit"
	"younv/tenancy"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func identityAPI(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user" || r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"name":"Maria","email":"maria@clinica.com"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAuth(t *testing.T) {
	auth := NewAuth(identityAPI(t).URL, zap.NewNop())

	var seen AuthUser
	var actorID string
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFrom(r.Context())
		actorID = audit.DefaultResolver().Resolve(r.Context()).ID
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"rejected token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/leads", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", tc.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}

	assert.Equal(t, "42", seen.UserID())
	assert.Equal(t, "Maria", seen.Name)
	assert.Equal(t, "42", actorID)
}

type fakeDirectory map[string]string

func (f fakeDirectory) ClinicFor(_ context.Context, userID string) (string, error) {
	if userID == "boom" {
		return "", errors.New("mysql down")
	}
	clinic, ok := f[userID]
	if !ok {
		return "", tenancy.ErrNoClinic
	}
	return clinic, nil
}

func TestTenant(t *testing.T) {
	var tenant string
	var hasTenant bool
	handler := Tenant(fakeDirectory{"42": "clinic-a"}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant, hasTenant = tenancy.TenantFrom(r.Context())
	}))

	serve := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), userKey{}, AuthUser{ID: userID, Email: "x@y.com"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, serve("42"))
	assert.True(t, hasTenant)
	assert.Equal(t, "clinic-a", tenant)

	require.Equal(t, http.StatusOK, serve("7"))
	assert.False(t, hasTenant)

	assert.Equal(t, http.StatusServiceUnavailable, serve("boom"))
}

func TestRequestLogger(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/leads/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestIDFrom(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	})
	handler := RequestLogger(zap.NewNop())(mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leads/1", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HEADER_REQUEST_ID))

	req := httptest.NewRequest(http.MethodGet, "/v1/leads/1", nil)
	req.Header.Set(HEADER_REQUEST_ID, "abc")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(HEADER_REQUEST_ID))
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"https://app.younv.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/v1/leads", nil)
	req.Header.Set("Origin", "https://app.younv.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.younv.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/leads", nil)
	req.Header.Set("Origin", "https://evil.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdmin(t *testing.T) {
	var actorID string
	handler := Admin([]string{"1"}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID = audit.DefaultResolver().Resolve(r.Context()).ID
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(user *AuthUser) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/migrations/tenant/rollback", nil)
		if user != nil {
			req = req.WithContext(context.WithValue(req.Context(), userKey{}, *user))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&AuthUser{ID: float64(42), Email: "maria@clinica.com"}))
	assert.Empty(t, actorID)

	assert.Equal(t, http.StatusNoContent, serve(&AuthUser{ID: float64(1), Name: "Admin", Email: "admin@younv.com"}))
	assert.Equal(t, "1", actorID)
}
