package middlewares

import (
	"net/http"
	"slices"
	"younv/audit"
	"younv/utils"

	"go.uber.org/zap"
)

// Admin lets through only users whose id is in allowed. It must run after
// Auth. The admin becomes the current user the audited writes of the request
// are attributed to.
func Admin(allowed []string, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("admin")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok || !slices.Contains(allowed, user.UserID()) {
				if ok {
					logger.Warn("admin route refused", zap.String("user_id", user.UserID()), zap.String("path", r.URL.Path))
				}
				utils.SendResponse(w, http.StatusForbidden, "Acesso restrito a administradores", nil, 0)
				return
			}

			ctx := audit.WithCurrentUser(r.Context(), user.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
