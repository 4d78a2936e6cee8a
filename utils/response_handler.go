package utils

import (
	"encoding/json"
	"net/http"
	"younv/schemas"

	"go.uber.org/zap"
)

func SendResponse(w http.ResponseWriter, statusCode int, message string, data any, internalErrorCode int) {
	if internalErrorCode != 0 {
		writeJSON(w, statusCode, schemas.ApiResponse{
			Message: SendInternalError(internalErrorCode),
		})
		return
	}

	if (message == "") && (data == nil) {
		w.WriteHeader(statusCode)
		return
	}

	writeJSON(w, statusCode, schemas.ApiResponse{
		Data:    data,
		Message: message,
	})
}

// SendError answers with the taxonomy message when err is a CRMError and
// with the generic internal error otherwise.
func SendError(w http.ResponseWriter, logger *zap.Logger, err error, internalErrorCode int) {
	crmErr, ok := AsCRMError(err)
	if !ok {
		logger.Error("unexpected error", zap.Error(err), zap.Int("internal_code", internalErrorCode))
		SendResponse(w, http.StatusInternalServerError, "", nil, internalErrorCode)
		return
	}

	var data any
	if len(crmErr.Fields) > 0 {
		data = crmErr.Fields
	}
	writeJSON(w, StatusFor(crmErr), schemas.ApiResponse{
		Message: crmErr.Message,
		Data:    data,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body schemas.ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
