package audit

import (
	"reflect"
	"slices"
	"sort"
	"younv/records"
	"younv/schemas"
)

// Diff compares the watched fields present in payload against before. It
// returns the recorded changes in watch-list order and, separately, the
// names of unwatched fields whose value changes.
func Diff(before, payload records.Record, policy Policy) ([]schemas.FieldChange, []string) {
	changes := []schemas.FieldChange{}
	for _, field := range policy.WatchedFields {
		newValue, present := payload[field]
		if !present {
			continue
		}
		oldValue := before[field]
		if Equal(oldValue, newValue, policy.isSet(field)) {
			continue
		}
		changes = append(changes, schemas.FieldChange{
			Field:    field,
			OldValue: records.Normalize(oldValue),
			NewValue: records.Normalize(newValue),
		})
	}

	unwatched := []string{}
	for field, newValue := range payload {
		if policy.Watches(field) || slices.Contains(bookkeeping, field) {
			continue
		}
		if !Equal(before[field], newValue, false) {
			unwatched = append(unwatched, field)
		}
	}
	sort.Strings(unwatched)

	return changes, unwatched
}

// Equal reports whether two field values are the same for history purposes.
// Numbers compare by value whatever their Go type, an absent value equals
// the zero value of the other side, and set fields ignore order.
func Equal(a, b any, set bool) bool {
	if a == nil || b == nil {
		return isZero(a) && isZero(b)
	}

	if set {
		return sameSet(records.Strings(a), records.Strings(b))
	}

	if fa, ok := records.ToFloat(a); ok {
		fb, ok := records.ToFloat(b)
		return ok && fa == fb
	}

	return reflect.DeepEqual(records.Normalize(a), records.Normalize(b))
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	switch typed := v.(type) {
	case string:
		return typed == ""
	case bool:
		return !typed
	case []any:
		return len(typed) == 0
	case []string:
		return len(typed) == 0
	}
	if f, ok := records.ToFloat(v); ok {
		return f == 0
	}
	return false
}

func sameSet(a, b []string) bool {
	setA := map[string]bool{}
	for _, item := range a {
		setA[item] = true
	}
	setB := map[string]bool{}
	for _, item := range b {
		setB[item] = true
	}
	return reflect.DeepEqual(setA, setB)
}
