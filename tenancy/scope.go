// Package tenancy scopes every record operation to the clinic of the
// current request.
package tenancy

import (
	"context"
	"strings"
	"sync"
)

// Scope holds the active tenant of one request or job.
type Scope struct {
	mu     sync.RWMutex
	tenant string
}

func NewScope(tenant string) *Scope {
	return &Scope{tenant: strings.TrimSpace(tenant)}
}

func (s *Scope) SetCurrentTenant(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenant = strings.TrimSpace(id)
}

// CurrentTenant reports false when no tenant has been set.
func (s *Scope) CurrentTenant() (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenant, s.tenant != ""
}

type scopeKey struct{}

func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

func ScopeFrom(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(*Scope)
	return scope, ok && scope != nil
}

// WithTenant is a shorthand for WithScope(ctx, NewScope(id)).
func WithTenant(ctx context.Context, id string) context.Context {
	return WithScope(ctx, NewScope(id))
}

func TenantFrom(ctx context.Context) (string, bool) {
	scope, ok := ScopeFrom(ctx)
	if !ok {
		return "", false
	}
	return scope.CurrentTenant()
}
