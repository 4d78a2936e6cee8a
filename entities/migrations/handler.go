// Package migrations exposes the data migrations as admin routes. Every
// route runs against the unscoped store and reports per-record failures in
// its body.
package migrations

import (
	"context"
	"net/http"
	"younv/database"
	"younv/migrations"
	"younv/records"
	"younv/utils"

	"go.uber.org/zap"
)

// ClinicCreator creates the clinic legacy records are assigned to when the
// tenant migration is started without one.
type ClinicCreator interface {
	CreateDefault(ctx context.Context) (records.Record, error)
}

type Handler struct {
	runner      *migrations.Runner
	clinics     ClinicCreator
	collections []string
	logger      *zap.Logger
}

func NewHandler(runner *migrations.Runner, clinics ClinicCreator, logger *zap.Logger) *Handler {
	return &Handler{
		runner:      runner,
		clinics:     clinics,
		collections: database.TenantCollections,
		logger:      logger.Named("migrations"),
	}
}

func (h *Handler) send(w http.ResponseWriter, success bool, message string, data any) {
	status := http.StatusOK
	if !success {
		status = http.StatusInternalServerError
	}
	utils.SendResponse(w, status, message, data, 0)
}
