package records

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// MemoryBackend keeps collections in process memory. It mirrors the managed
// backend behavior (server timestamps, equality queries, post-image on
// update) and can be switched into a failing state to simulate an outage.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string][]Record
	seq         int
	failure     error
	now         func() time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: map[string][]Record{}, now: time.Now}
}

// SetFailure makes every subsequent call return err. Pass nil to recover.
func (b *MemoryBackend) SetFailure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failure = err
}

// Seed stores raw documents as-is, assigning ids where missing.
func (b *MemoryBackend) Seed(collection string, docs ...Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, doc := range docs {
		doc = doc.Clone()
		if doc.ID() == "" {
			doc["id"] = b.nextID()
		}
		b.collections[collection] = append(b.collections[collection], doc)
	}
}

// Raw returns the stored document without translation.
func (b *MemoryBackend) Raw(collection, id string) (Record, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i := b.indexOf(collection, id); i >= 0 {
		return b.collections[collection][i].Clone(), true
	}
	return nil, false
}

func (b *MemoryBackend) FindAll(ctx context.Context, collection string) ([]Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.check(ctx); err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(b.collections[collection]))
	for _, doc := range b.collections[collection] {
		out = append(out, doc.Clone())
	}
	return out, nil
}

func (b *MemoryBackend) FindWhere(ctx context.Context, collection, field string, value any) ([]Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.check(ctx); err != nil {
		return nil, err
	}

	out := []Record{}
	for _, doc := range b.collections[collection] {
		if current, ok := doc[field]; ok && reflect.DeepEqual(current, value) {
			out = append(out, doc.Clone())
		}
	}
	return out, nil
}

func (b *MemoryBackend) FindByID(ctx context.Context, collection, id string) (Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.check(ctx); err != nil {
		return nil, err
	}

	i := b.indexOf(collection, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return b.collections[collection][i].Clone(), nil
}

func (b *MemoryBackend) Insert(ctx context.Context, collection string, doc Record) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(ctx); err != nil {
		return nil, err
	}

	stored := Record{}
	for k, v := range doc.Clone() {
		if !IsUnset(v) {
			stored[k] = v
		}
	}
	if stored.ID() == "" {
		stored["id"] = b.nextID()
	}
	now := b.now()
	if _, ok := stored["createdAt"]; !ok {
		stored["createdAt"] = now
	}
	stored["updatedAt"] = now

	b.collections[collection] = append(b.collections[collection], stored)
	return stored.Clone(), nil
}

func (b *MemoryBackend) Update(ctx context.Context, collection, id string, doc Record) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(ctx); err != nil {
		return nil, err
	}

	i := b.indexOf(collection, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	stored := b.collections[collection][i]
	for k, v := range doc.Clone() {
		if k == "id" {
			continue
		}
		if IsUnset(v) {
			delete(stored, k)
			continue
		}
		stored[k] = v
	}
	stored["updatedAt"] = b.now()
	return stored.Clone(), nil
}

func (b *MemoryBackend) Delete(ctx context.Context, collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(ctx); err != nil {
		return err
	}

	i := b.indexOf(collection, id)
	if i < 0 {
		return ErrNotFound
	}
	docs := b.collections[collection]
	b.collections[collection] = append(docs[:i:i], docs[i+1:]...)
	return nil
}

func (b *MemoryBackend) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.failure
}

func (b *MemoryBackend) indexOf(collection, id string) int {
	for i, doc := range b.collections[collection] {
		if doc.ID() == id {
			return i
		}
	}
	return -1
}

func (b *MemoryBackend) nextID() string {
	b.seq++
	return fmt.Sprintf("mem-%06d", b.seq)
}
