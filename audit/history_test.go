package audit

import (
	"testing"
	"time"
	"younv/records"
	"younv/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var caio = schemas.Actor{ID: "u-caio", Nome: "Caio", Email: "caio@clinica.com"}

func entry(ts string, actor schemas.Actor, action string, fields ...string) schemas.AuditEntry {
	changes := []schemas.FieldChange{}
	for _, f := range fields {
		changes = append(changes, schemas.FieldChange{Field: f})
	}
	return schemas.AuditEntry{Timestamp: ts, User: actor, Action: action, Changes: changes}
}

func trail(entries ...schemas.AuditEntry) []any {
	out := []any{}
	for _, e := range entries {
		out = append(out, e.Map())
	}
	return out
}

func TestSummarize(t *testing.T) {
	rec := records.Record{"audit_trail": trail(
		entry("2024-01-01T10:00:00.000Z", bia, schemas.AUDIT_ACTION_CREATION),
		entry("2024-01-03T10:00:00.000Z", caio, schemas.AUDIT_ACTION_EDIT, "status"),
		entry("2024-01-02T10:00:00.000Z", bia, schemas.AUDIT_ACTION_EDIT, "telefone"),
	)}

	summary := Summarize(rec)

	assert.Equal(t, 3, summary.TotalChanges)
	require.NotNil(t, summary.LastModified)
	assert.Equal(t, "2024-01-03T10:00:00.000Z", *summary.LastModified)
	assert.Equal(t, "Bia", summary.CreatedByName)
	require.NotNil(t, summary.LastModifiedByName)
	assert.Equal(t, "Caio", *summary.LastModifiedByName)
	assert.True(t, summary.HasMultipleEditors)
}

func TestSummarize_NoHistory(t *testing.T) {
	summary := Summarize(records.Record{})

	assert.Zero(t, summary.TotalChanges)
	assert.Nil(t, summary.LastModified)
	assert.Equal(t, "Desconhecido", summary.CreatedByName)
}

func TestDescribeAction(t *testing.T) {
	policy := DefaultLeadPolicy()

	assert.Equal(t, "Lead criado no sistema", DescribeAction(entry("", bia, schemas.AUDIT_ACTION_CREATION), policy))
	assert.Equal(t, "Lead atualizado", DescribeAction(entry("", bia, schemas.AUDIT_ACTION_EDIT), policy))
	assert.Equal(t, "Alterou Status", DescribeAction(entry("", bia, schemas.AUDIT_ACTION_EDIT, "status"), policy))
	assert.Equal(t, "Alterou 2 campos: Status, Tags",
		DescribeAction(entry("", bia, schemas.AUDIT_ACTION_EDIT, "status", "tags"), policy))
	assert.Equal(t, "Ação desconhecida", DescribeAction(entry("", bia, "merge"), policy))
}

func TestFormatHistory(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	entries := []schemas.AuditEntry{
		entry("2024-01-01T10:00:00.000Z", bia, schemas.AUDIT_ACTION_CREATION),
		entry("2024-01-02T10:00:00.000Z", caio, schemas.AUDIT_ACTION_EDIT, "status"),
	}

	formatted := FormatHistory(entries, DefaultLeadPolicy(), loc)

	require.Len(t, formatted, 2)
	assert.Equal(t, "Caio", formatted[0].User.Nome)
	assert.Equal(t, "02/01/2024 07:00:00", formatted[0].FormattedDate)
	assert.Equal(t, 1, formatted[0].ChangesCount)
	assert.Equal(t, "Lead criado no sistema", formatted[1].ActionDescription)
}

func TestTrimHistory(t *testing.T) {
	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []schemas.AuditEntry{
		entry("2024-01-01T10:00:00.000Z", bia, schemas.AUDIT_ACTION_CREATION),
		entry("2024-02-01T10:00:00.000Z", bia, schemas.AUDIT_ACTION_EDIT, "status"),
		entry("not a date", bia, schemas.AUDIT_ACTION_EDIT, "tags"),
		entry("2024-07-01T10:00:00.000Z", caio, schemas.AUDIT_ACTION_EDIT, "telefone"),
	}

	kept := TrimHistory(entries, cutoff)

	require.Len(t, kept, 3)
	assert.Equal(t, schemas.AUDIT_ACTION_CREATION, kept[0].Action)
	assert.Equal(t, "not a date", kept[1].Timestamp)
	assert.Equal(t, "2024-07-01T10:00:00.000Z", kept[2].Timestamp)
}
