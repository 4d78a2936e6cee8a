package records

import (
	"time"
	"younv/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Normalize converts backend-native values into plain serializable ones:
// timestamps become ISO-8601 strings, ObjectIDs become hex strings and bson
// documents and arrays become maps and slices. It recurses through nesting.
func Normalize(v any) any {
	switch typed := v.(type) {
	case time.Time:
		return utils.FormatISO(typed)
	case *time.Time:
		if typed == nil {
			return nil
		}
		return utils.FormatISO(*typed)
	case bson.DateTime:
		return utils.FormatISO(typed.Time())
	case bson.Timestamp:
		return utils.FormatISO(time.Unix(int64(typed.T), 0))
	case bson.ObjectID:
		return typed.Hex()
	case bson.D:
		out := make(map[string]any, len(typed))
		for _, e := range typed {
			out[e.Key] = Normalize(e.Value)
		}
		return out
	case bson.M:
		return normalizeMap(typed)
	case Record:
		return normalizeMap(typed)
	case map[string]any:
		return normalizeMap(typed)
	case bson.A:
		return normalizeSlice(typed)
	case []any:
		return normalizeSlice(typed)
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeMap(item)
		}
		return out
	}
	return v
}

// NormalizeRecord applies Normalize to every field of rec.
func NormalizeRecord(rec Record) Record {
	return Record(normalizeMap(rec))
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = Normalize(item)
	}
	return out
}

func normalizeSlice(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = Normalize(item)
	}
	return out
}
