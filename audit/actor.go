// Package audit stamps actor identity on writes and keeps the per-record
// change history embedded in each audited record.
package audit

import (
	"context"
	"strings"
	"younv/schemas"
)

type ctxKey int

const (
	explicitActorKey ctxKey = iota
	currentUserKey
	sessionKey
)

// WithExplicitActor sets the identity a caller wants a single write to be
// attributed to. It wins over every other source. No HTTP route sets it;
// it is for code that writes on behalf of someone else, such as scripts
// and background jobs.
func WithExplicitActor(ctx context.Context, actor schemas.Actor) context.Context {
	return context.WithValue(ctx, explicitActorKey, actor)
}

// WithCurrentUser sets the application-level current user. The admin
// middleware sets it for migration runs.
func WithCurrentUser(ctx context.Context, actor schemas.Actor) context.Context {
	return context.WithValue(ctx, currentUserKey, actor)
}

// WithSession sets the identity reported by the authentication provider.
func WithSession(ctx context.Context, actor schemas.Actor) context.Context {
	return context.WithValue(ctx, sessionKey, actor)
}

// SessionFrom returns the authenticated session identity, if any.
func SessionFrom(ctx context.Context) (schemas.Actor, bool) {
	return fromContext(sessionKey)(ctx)
}

// Source yields an identity or reports that it has none.
type Source func(ctx context.Context) (schemas.Actor, bool)

func fromContext(key ctxKey) Source {
	return func(ctx context.Context) (schemas.Actor, bool) {
		actor, ok := ctx.Value(key).(schemas.Actor)
		if !ok || strings.TrimSpace(actor.ID) == "" {
			return schemas.Actor{}, false
		}
		return actor, true
	}
}

// Resolver walks its sources in priority order and falls back to the system
// identity. Resolve never fails.
type Resolver struct {
	sources  []Source
	fallback schemas.Actor
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources, fallback: schemas.SystemActor()}
}

// DefaultResolver resolves explicit identity, then current user, then
// session, then the system identity.
func DefaultResolver() *Resolver {
	return NewResolver(fromContext(explicitActorKey), fromContext(currentUserKey), fromContext(sessionKey))
}

func (r *Resolver) Resolve(ctx context.Context) schemas.Actor {
	if ctx == nil {
		return r.fallback
	}
	for _, source := range r.sources {
		if actor, ok := try(ctx, source); ok {
			return complete(actor)
		}
	}
	return r.fallback
}

func try(ctx context.Context, source Source) (actor schemas.Actor, ok bool) {
	defer func() {
		if recover() != nil {
			actor, ok = schemas.Actor{}, false
		}
	}()
	return source(ctx)
}

// complete derives a display name from the e-mail when the provider gave none.
func complete(actor schemas.Actor) schemas.Actor {
	if actor.Nome == "" && actor.Email != "" {
		actor.Nome = strings.SplitN(actor.Email, "@", 2)[0]
	}
	if actor.Nome == "" {
		actor.Nome = actor.ID
	}
	return actor
}
