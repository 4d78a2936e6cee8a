package schemas

import "encoding/json"

const (
	AUDIT_ACTION_CREATION = "creation"
	AUDIT_ACTION_EDIT     = "edit"

	SYSTEM_ACTOR_ID = "sistema"
)

type Actor struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

type FieldChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

// AuditEntry is one element of the audit_trail array embedded in a record.
type AuditEntry struct {
	Timestamp string        `json:"timestamp"`
	User      Actor         `json:"user"`
	Action    string        `json:"action"`
	Changes   []FieldChange `json:"changes"`
}

func SystemActor() Actor {
	return Actor{ID: SYSTEM_ACTOR_ID, Nome: "Sistema", Email: "sistema@younv.com.br"}
}

func (a Actor) Map() map[string]any {
	return map[string]any{"id": a.ID, "nome": a.Nome, "email": a.Email}
}

// Map renders the entry with plain maps and slices so it can be stored in a
// record next to entries read back from a backend.
func (e AuditEntry) Map() map[string]any {
	changes := make([]any, 0, len(e.Changes))
	for _, c := range e.Changes {
		changes = append(changes, map[string]any{
			"field":     c.Field,
			"old_value": c.OldValue,
			"new_value": c.NewValue,
		})
	}
	return map[string]any{
		"timestamp": e.Timestamp,
		"user":      e.User.Map(),
		"action":    e.Action,
		"changes":   changes,
	}
}

// DecodeAuditTrail reads the audit_trail value of a record. Malformed
// entries are skipped.
func DecodeAuditTrail(v any) []AuditEntry {
	var items []any
	switch typed := v.(type) {
	case []any:
		items = typed
	case []map[string]any:
		for _, m := range typed {
			items = append(items, m)
		}
	default:
		return nil
	}

	entries := make([]AuditEntry, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		entry := AuditEntry{}
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func DecodeActor(v any) (Actor, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Actor{}, false
	}
	actor := Actor{}
	actor.ID, _ = m["id"].(string)
	actor.Nome, _ = m["nome"].(string)
	actor.Email, _ = m["email"].(string)
	return actor, actor.ID != ""
}
