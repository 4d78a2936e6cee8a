// Package records is the record store adapter: generic CRUD against a
// document backend with per-entity field-name translation between the
// internal snake_case shape and the external camelCase storage shape.
package records

import (
	"context"

	"github.com/pkg/errors"
)

// Record is a single document. The "id" key holds its id as a string.
type Record map[string]any

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

type unset struct{}

// Unset removes a field when used as a value in an Update payload.
var Unset = unset{}

func IsUnset(v any) bool {
	_, ok := v.(unset)
	return ok
}

// Store is the verb set shared by the adapter, the audit composer, the tenant
// scoping layer and the local fallback cache. Records use internal names.
type Store interface {
	GetAll(ctx context.Context, collection string) ([]Record, error)
	GetWhere(ctx context.Context, collection, field string, value any) ([]Record, error)
	GetByID(ctx context.Context, collection, id string) (Record, error)
	Create(ctx context.Context, collection string, data Record) (Record, error)
	Update(ctx context.Context, collection, id string, data Record) (Record, error)
	Delete(ctx context.Context, collection, id string) error
}

// Backend is the remote document database. Documents use external names.
type Backend interface {
	FindAll(ctx context.Context, collection string) ([]Record, error)
	FindWhere(ctx context.Context, collection, field string, value any) ([]Record, error)
	FindByID(ctx context.Context, collection, id string) (Record, error)
	Insert(ctx context.Context, collection string, doc Record) (Record, error)
	Update(ctx context.Context, collection, id string, doc Record) (Record, error)
	Delete(ctx context.Context, collection, id string) error
}

func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

func (r Record) Bool(field string) bool {
	b, _ := r[field].(bool)
	return b
}

// Float reads a numeric field regardless of its concrete Go type.
func (r Record) Float(field string) float64 {
	f, _ := ToFloat(r[field])
	return f
}

func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Clone returns a deep copy of r. Nested maps and slices are copied too.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return cloneValue(map[string]any(r)).(map[string]any)
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case Record:
		return Record(cloneValue(map[string]any(typed)).(map[string]any))
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}

// ToFloat converts any Go numeric value to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Strings reads a list of strings from a []any or []string value.
func Strings(v any) []string {
	switch typed := v.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
