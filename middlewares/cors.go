package middlewares

import (
	"net/http"
	"os"
	"slices"
	"younv/utils"
)

var developmentOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
}

// AllowedOrigins reads CORS_ORIGINS. Outside production the local dev
// servers are always allowed.
func AllowedOrigins() []string {
	origins := utils.GetEnvList(utils.CORS_ORIGINS)
	if os.Getenv(utils.ENV) != utils.ENV_RELEASE {
		origins = append(origins, developmentOrigins...)
	}
	return origins
}

func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if slices.Contains(allowedOrigins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				utils.SendResponse(w, http.StatusOK, "", nil, 0)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
