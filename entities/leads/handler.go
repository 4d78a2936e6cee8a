package leads

import (
	"encoding/json"
	"net/http"
	"time"
	"younv/audit"
	"younv/records"
	"younv/utils"

	"go.uber.org/zap"
)

const DISPLAY_TIMEZONE = "America/Sao_Paulo"

type Handler struct {
	store    records.Store
	service  *Service
	policy   audit.Policy
	location *time.Location
	logger   *zap.Logger
}

// NewHandler serves the lead routes from a tenant scoped store. policy is
// used to describe history entries.
func NewHandler(store records.Store, policy audit.Policy, logger *zap.Logger) *Handler {
	logger = logger.Named("leads")

	location, err := time.LoadLocation(DISPLAY_TIMEZONE)
	if err != nil {
		logger.Warn("timezone not available, using UTC", zap.String("timezone", DISPLAY_TIMEZONE), zap.Error(err))
		location = time.UTC
	}

	return &Handler{
		store:    store,
		service:  NewService(store, logger),
		policy:   policy,
		location: location,
		logger:   logger,
	}
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (records.Record, bool) {
	data := records.Record{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.INVALID_REQUEST_DATA)
		return nil, false
	}
	return data, true
}
