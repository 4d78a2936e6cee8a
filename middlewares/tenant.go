package middlewares

import (
	"net/http"
	"younv/tenancy"
	"younv/utils"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Tenant resolves the clinic of the authenticated user and opens a tenant
// scope for the request. A user without a clinic continues with an empty
// scope, so only global collections are reachable.
func Tenant(directory tenancy.Directory, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("tenant")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := tenancy.NewScope("")

			if user, ok := UserFrom(r.Context()); ok {
				clinicID, err := directory.ClinicFor(r.Context(), user.UserID())
				switch {
				case err == nil:
					scope.SetCurrentTenant(clinicID)
				case errors.Is(err, tenancy.ErrNoClinic):
					logger.Debug("user without clinic", zap.String("user_id", user.UserID()))
				default:
					utils.SendError(w, logger, utils.NewRemoteUnavailable(err), utils.CANNOT_RESOLVE_TENANT)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(tenancy.WithScope(r.Context(), scope)))
		})
	}
}
