package audit

import (
	"sort"
	"time"
	"younv/records"
	"younv/schemas"
	"younv/utils"
)

const (
	REPORT_TOP_LIMIT        = 10
	CHANGES_BY_USER_DEFAULT = 50
)

type UserActivity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Count  int    `json:"count"`
}

type RecordActivity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ChangesCount int    `json:"changes_count"`
}

type TimelineItem struct {
	Date       string `json:"date"`
	User       string `json:"user"`
	Action     string `json:"action"`
	RecordName string `json:"record_name"`
	RecordID   string `json:"record_id"`
}

type ReportPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Report struct {
	Period             ReportPeriod             `json:"period"`
	TotalRecords       int                      `json:"total_records"`
	RecordsWithAudit   int                      `json:"records_with_audit"`
	TotalChanges       int                      `json:"total_changes"`
	ChangesByUser      map[string]*UserActivity `json:"changes_by_user"`
	ChangesByAction    map[string]int           `json:"changes_by_action"`
	MostActiveUsers    []UserActivity           `json:"most_active_users"`
	MostChangedRecords []RecordActivity         `json:"most_changed_records"`
	Timeline           []TimelineItem           `json:"changes_timeline"`
}

// BuildReport aggregates the history entries of recs that fall inside
// [start, end].
func BuildReport(recs []records.Record, policy Policy, start, end time.Time) Report {
	report := Report{
		Period:        ReportPeriod{Start: start.UTC().Format(time.RFC3339), End: end.UTC().Format(time.RFC3339)},
		TotalRecords:  len(recs),
		ChangesByUser: map[string]*UserActivity{},
		ChangesByAction: map[string]int{
			schemas.AUDIT_ACTION_CREATION: 0,
			schemas.AUDIT_ACTION_EDIT:     0,
		},
		MostActiveUsers:    []UserActivity{},
		MostChangedRecords: []RecordActivity{},
		Timeline:           []TimelineItem{},
	}

	for _, rec := range recs {
		entries := schemas.DecodeAuditTrail(rec["audit_trail"])
		if len(entries) == 0 {
			continue
		}
		report.RecordsWithAudit++

		relevant := 0
		for _, e := range entries {
			t := entryTime(e)
			if t.Before(start) || t.After(end) {
				continue
			}
			relevant++

			activity, ok := report.ChangesByUser[e.User.ID]
			if !ok {
				activity = &UserActivity{UserID: e.User.ID, Name: e.User.Nome, Email: e.User.Email}
				report.ChangesByUser[e.User.ID] = activity
			}
			activity.Count++
			report.ChangesByAction[e.Action]++

			report.Timeline = append(report.Timeline, TimelineItem{
				Date:       e.Timestamp,
				User:       e.User.Nome,
				Action:     e.Action,
				RecordName: rec.String(policy.NameField),
				RecordID:   rec.ID(),
			})
		}

		report.TotalChanges += relevant
		if relevant > 0 {
			report.MostChangedRecords = append(report.MostChangedRecords, RecordActivity{
				ID:           rec.ID(),
				Name:         rec.String(policy.NameField),
				ChangesCount: relevant,
			})
		}
	}

	for _, activity := range report.ChangesByUser {
		report.MostActiveUsers = append(report.MostActiveUsers, *activity)
	}
	sort.SliceStable(report.MostActiveUsers, func(i, j int) bool {
		if report.MostActiveUsers[i].Count != report.MostActiveUsers[j].Count {
			return report.MostActiveUsers[i].Count > report.MostActiveUsers[j].Count
		}
		return report.MostActiveUsers[i].UserID < report.MostActiveUsers[j].UserID
	})
	report.MostActiveUsers = head(report.MostActiveUsers, REPORT_TOP_LIMIT)

	sort.SliceStable(report.MostChangedRecords, func(i, j int) bool {
		return report.MostChangedRecords[i].ChangesCount > report.MostChangedRecords[j].ChangesCount
	})
	report.MostChangedRecords = head(report.MostChangedRecords, REPORT_TOP_LIMIT)

	sort.SliceStable(report.Timeline, func(i, j int) bool {
		ti, _ := utils.ParseDate(report.Timeline[i].Date)
		tj, _ := utils.ParseDate(report.Timeline[j].Date)
		return ti.After(tj)
	})

	return report
}

type UserChange struct {
	schemas.AuditEntry
	RecordID    string `json:"record_id"`
	RecordName  string `json:"record_name"`
	RecordPhone string `json:"record_phone,omitempty"`
}

// ChangesByUser lists the entries made by userID, newest first, at most limit.
func ChangesByUser(recs []records.Record, policy Policy, userID string, limit int) []UserChange {
	if limit <= 0 {
		limit = CHANGES_BY_USER_DEFAULT
	}

	out := []UserChange{}
	for _, rec := range recs {
		for _, e := range schemas.DecodeAuditTrail(rec["audit_trail"]) {
			if e.User.ID != userID {
				continue
			}
			out = append(out, UserChange{
				AuditEntry:  e,
				RecordID:    rec.ID(),
				RecordName:  rec.String(policy.NameField),
				RecordPhone: rec.String("telefone"),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return entryTime(out[i].AuditEntry).After(entryTime(out[j].AuditEntry))
	})
	return head(out, limit)
}

type Stats struct {
	TotalRecords        int             `json:"total_records"`
	RecordsWithAudit    int             `json:"records_with_audit"`
	RecordsWithoutAudit int             `json:"records_without_audit"`
	TotalChanges        int             `json:"total_changes"`
	UniqueUsers         int             `json:"unique_users"`
	ChangesLast7Days    int             `json:"changes_last_7_days"`
	ChangesLast30Days   int             `json:"changes_last_30_days"`
	MostActiveUser      *UserActivity   `json:"most_active_user"`
	MostChangedRecord   *RecordActivity `json:"most_changed_record"`
}

func ComputeStats(recs []records.Record, policy Policy, now time.Time) Stats {
	stats := Stats{TotalRecords: len(recs)}
	last7 := now.Add(-7 * 24 * time.Hour)
	last30 := now.Add(-30 * 24 * time.Hour)

	users := map[string]*UserActivity{}
	var mostChanged *RecordActivity

	for _, rec := range recs {
		entries := schemas.DecodeAuditTrail(rec["audit_trail"])
		if len(entries) == 0 {
			stats.RecordsWithoutAudit++
			continue
		}
		stats.RecordsWithAudit++
		stats.TotalChanges += len(entries)

		if mostChanged == nil || len(entries) > mostChanged.ChangesCount {
			mostChanged = &RecordActivity{ID: rec.ID(), Name: rec.String(policy.NameField), ChangesCount: len(entries)}
		}

		for _, e := range entries {
			activity, ok := users[e.User.ID]
			if !ok {
				activity = &UserActivity{UserID: e.User.ID, Name: e.User.Nome, Email: e.User.Email}
				users[e.User.ID] = activity
			}
			activity.Count++

			t := entryTime(e)
			if !t.Before(last7) {
				stats.ChangesLast7Days++
			}
			if !t.Before(last30) {
				stats.ChangesLast30Days++
			}
		}
	}

	stats.UniqueUsers = len(users)
	for _, activity := range users {
		if stats.MostActiveUser == nil || activity.Count > stats.MostActiveUser.Count ||
			(activity.Count == stats.MostActiveUser.Count && activity.UserID < stats.MostActiveUser.UserID) {
			stats.MostActiveUser = activity
		}
	}
	stats.MostChangedRecord = mostChanged
	return stats
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
