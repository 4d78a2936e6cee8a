package clinics

import (
	"encoding/json"
	"net/http"
	"younv/records"
	"younv/utils"

	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(store records.Store, logger *zap.Logger) *Handler {
	logger = logger.Named("clinics")
	return &Handler{service: NewService(store, logger), logger: logger}
}

func (h *Handler) Service() *Service {
	return h.service
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (records.Record, bool) {
	data := records.Record{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.INVALID_REQUEST_DATA)
		return nil, false
	}
	return data, true
}
