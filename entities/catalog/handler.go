// Package catalog serves the clinic's médicos, especialidades and
// procedimentos. The three collections share one handler type that differs
// only in the collection name and the schema used for validation.
package catalog

import (
	"encoding/json"
	"net/http"
	"time"
	"younv/database"
	"younv/records"
	"younv/schemas"
	"younv/utils"

	"go.uber.org/zap"
)

type validateFunc func(records.Record) error

func validateAs[T any](rec records.Record) error {
	_, err := utils.ValidateRecord[T](rec)
	return err
}

type Handler struct {
	store      records.Store
	collection string
	validate   validateFunc
	now        func() time.Time
	logger     *zap.Logger
}

func newHandler(store records.Store, collection string, validate validateFunc, logger *zap.Logger) *Handler {
	return &Handler{
		store:      store,
		collection: collection,
		validate:   validate,
		now:        time.Now,
		logger:     logger.Named(collection),
	}
}

func NewMedicosHandler(store records.Store, logger *zap.Logger) *Handler {
	return newHandler(store, database.COLLECTION_MEDICOS, validateAs[schemas.Medico], logger)
}

func NewEspecialidadesHandler(store records.Store, logger *zap.Logger) *Handler {
	return newHandler(store, database.COLLECTION_ESPECIALIDADES, validateAs[schemas.Especialidade], logger)
}

func NewProcedimentosHandler(store records.Store, logger *zap.Logger) *Handler {
	return newHandler(store, database.COLLECTION_PROCEDIMENTOS, validateAs[schemas.Procedimento], logger)
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (records.Record, bool) {
	data := records.Record{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, "", nil, utils.INVALID_REQUEST_DATA)
		return nil, false
	}
	return data, true
}
