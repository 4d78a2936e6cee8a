package audit

import (
	"context"
	"testing"
	"younv/schemas"

	"github.com/stretchr/testify/assert"
)

func TestResolver_PriorityOrder(t *testing.T) {
	explicit := schemas.Actor{ID: "e", Nome: "Explicit", Email: "e@x.com"}
	current := schemas.Actor{ID: "c", Nome: "Current", Email: "c@x.com"}
	session := schemas.Actor{ID: "s", Nome: "Session", Email: "s@x.com"}
	r := DefaultResolver()

	ctx := context.Background()
	assert.Equal(t, schemas.SystemActor(), r.Resolve(ctx))

	ctx = WithSession(ctx, session)
	assert.Equal(t, session, r.Resolve(ctx))

	ctx = WithCurrentUser(ctx, current)
	assert.Equal(t, current, r.Resolve(ctx))

	ctx = WithExplicitActor(ctx, explicit)
	assert.Equal(t, explicit, r.Resolve(ctx))
}

func TestResolver_SkipsBlankIdentity(t *testing.T) {
	r := DefaultResolver()
	ctx := WithCurrentUser(context.Background(), schemas.Actor{ID: "  "})
	ctx = WithSession(ctx, schemas.Actor{ID: "s", Email: "maria.silva@clinica.com"})

	actor := r.Resolve(ctx)

	assert.Equal(t, "s", actor.ID)
	assert.Equal(t, "maria.silva", actor.Nome)
}

func TestResolver_NeverFails(t *testing.T) {
	panicking := func(context.Context) (schemas.Actor, bool) { panic("boom") }
	r := NewResolver(panicking)

	assert.NotPanics(t, func() {
		actor := r.Resolve(context.Background())
		assert.Equal(t, schemas.SYSTEM_ACTOR_ID, actor.ID)
	})
	assert.Equal(t, schemas.SYSTEM_ACTOR_ID, r.Resolve(nil).ID)
}
