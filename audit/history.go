package audit

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"younv/records"
	"younv/schemas"
	"younv/utils"
)

type Summary struct {
	TotalChanges       int     `json:"total_changes"`
	LastModified       *string `json:"last_modified"`
	CreatedByName      string  `json:"created_by_name"`
	LastModifiedByName *string `json:"last_modified_by_name"`
	HasMultipleEditors bool    `json:"has_multiple_editors"`
}

type FormattedEntry struct {
	schemas.AuditEntry
	FormattedDate     string `json:"formatted_date"`
	ActionDescription string `json:"action_description"`
	ChangesCount      int    `json:"changes_count"`
}

// Summarize condenses the history of one record.
func Summarize(rec records.Record) Summary {
	entries := sortedNewestFirst(schemas.DecodeAuditTrail(rec["audit_trail"]))
	if len(entries) == 0 {
		return Summary{CreatedByName: "Desconhecido"}
	}

	last := entries[0]
	first := entries[len(entries)-1]

	editors := map[string]bool{}
	for _, e := range entries {
		editors[e.User.ID] = true
	}

	summary := Summary{
		TotalChanges:       len(entries),
		LastModified:       &last.Timestamp,
		CreatedByName:      first.User.Nome,
		HasMultipleEditors: len(editors) > 1,
	}
	if last.Action != schemas.AUDIT_ACTION_CREATION {
		summary.LastModifiedByName = &last.User.Nome
	}
	return summary
}

// FormatHistory sorts entries newest first and adds display fields. Dates
// are rendered in loc.
func FormatHistory(entries []schemas.AuditEntry, policy Policy, loc *time.Location) []FormattedEntry {
	out := []FormattedEntry{}
	for _, e := range sortedNewestFirst(entries) {
		formatted := e.Timestamp
		if t, ok := utils.ParseDate(e.Timestamp); ok {
			formatted = t.In(loc).Format("02/01/2006 15:04:05")
		}
		out = append(out, FormattedEntry{
			AuditEntry:        e,
			FormattedDate:     formatted,
			ActionDescription: DescribeAction(e, policy),
			ChangesCount:      len(e.Changes),
		})
	}
	return out
}

func DescribeAction(e schemas.AuditEntry, policy Policy) string {
	label := policy.EntityLabel
	if label == "" {
		label = "Registro"
	}

	switch e.Action {
	case schemas.AUDIT_ACTION_CREATION:
		return label + " criado no sistema"
	case schemas.AUDIT_ACTION_EDIT:
		switch len(e.Changes) {
		case 0:
			return label + " atualizado"
		case 1:
			return "Alterou " + policy.DisplayName(e.Changes[0].Field)
		}
		names := make([]string, 0, len(e.Changes))
		for _, c := range e.Changes {
			names = append(names, policy.DisplayName(c.Field))
		}
		return fmt.Sprintf("Alterou %d campos: %s", len(e.Changes), strings.Join(names, ", "))
	}
	return "Ação desconhecida"
}

// TrimHistory keeps the first entry, every creation entry and every entry
// at or after cutoff. Entries with unparseable timestamps are kept.
func TrimHistory(entries []schemas.AuditEntry, cutoff time.Time) []schemas.AuditEntry {
	kept := []schemas.AuditEntry{}
	for i, e := range entries {
		t, ok := utils.ParseDate(e.Timestamp)
		if i == 0 || e.Action == schemas.AUDIT_ACTION_CREATION || !ok || !t.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	return kept
}

func sortedNewestFirst(entries []schemas.AuditEntry) []schemas.AuditEntry {
	// Entries sharing a timestamp keep append order reversed.
	out := make([]schemas.AuditEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return entryTime(out[i]).After(entryTime(out[j]))
	})
	return out
}

func entryTime(e schemas.AuditEntry) time.Time {
	t, _ := utils.ParseDate(e.Timestamp)
	return t
}
