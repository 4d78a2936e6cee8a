package report

import (
	"context"
	"net/http"
	"time"
	"younv/audit"
	"younv/database"
	"younv/records"
	"younv/utils"

	"go.uber.org/zap"
)

const DISPLAY_TIMEZONE = "America/Sao_Paulo"

type Handler struct {
	store    records.Store
	policy   audit.Policy
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewHandler(store records.Store, policy audit.Policy, logger *zap.Logger) *Handler {
	logger = logger.Named("report")

	location, err := time.LoadLocation(DISPLAY_TIMEZONE)
	if err != nil {
		logger.Warn("timezone not available, using UTC", zap.String("timezone", DISPLAY_TIMEZONE), zap.Error(err))
		location = time.UTC
	}

	return &Handler{store: store, policy: policy, location: location, now: time.Now, logger: logger}
}

func (h *Handler) leadsAndDoctors(ctx context.Context) ([]records.Record, []records.Record, error) {
	leads, err := h.store.GetAll(ctx, database.COLLECTION_LEADS)
	if err != nil {
		return nil, nil, err
	}
	medicos, err := h.store.GetAll(ctx, database.COLLECTION_MEDICOS)
	if err != nil {
		return nil, nil, err
	}
	return leads, medicos, nil
}

// period reads ?start and ?end. Missing bounds default to the last 30 days;
// a date-only end covers the whole day.
func (h *Handler) period(r *http.Request) (time.Time, time.Time, bool) {
	end := h.now()
	start := end.AddDate(0, 0, -30)

	if raw := r.URL.Query().Get("start"); raw != "" {
		t, ok := utils.ParseDate(raw)
		if !ok {
			return start, end, false
		}
		start = t
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		t, ok := utils.ParseDate(raw)
		if !ok {
			return start, end, false
		}
		if len(raw) == len("2006-01-02") {
			t = utils.EndOfDay(t)
		}
		end = t
	}
	return start, end, !end.Before(start)
}
