package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"younv/audit"
	"younv/schemas"
	"younv/utils"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const AUTH_TIMEOUT = 10 * time.Second

// AuthUser is the identity returned by the identity API. Its id may come as
// a number or a string.
type AuthUser struct {
	ID    any    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u AuthUser) UserID() string {
	switch id := u.ID.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return strings.TrimSpace(fmt.Sprint(id))
	}
}

func (u AuthUser) Actor() schemas.Actor {
	return schemas.Actor{ID: u.UserID(), Nome: u.Name, Email: u.Email}
}

type userKey struct{}

func WithUser(ctx context.Context, user AuthUser) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func UserFrom(ctx context.Context) (AuthUser, bool) {
	user, ok := ctx.Value(userKey{}).(AuthUser)
	return user, ok
}

// Auth checks the bearer token against AUTH_API_URL/api/user and puts the
// returned user in the context, both as the authenticated user and as the
// audit session actor.
type Auth struct {
	client *resty.Client
	logger *zap.Logger
}

func NewAuth(baseURL string, logger *zap.Logger) *Auth {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(AUTH_TIMEOUT).
		SetHeader("Accept", "application/json")

	return &Auth{client: client, logger: logger.Named("auth")}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" && r.URL.Query().Get("token") != "" {
			// Browsers cannot set headers on a websocket handshake.
			token = "Bearer " + r.URL.Query().Get("token")
		}
		if token == "" {
			utils.SendResponse(w, http.StatusUnauthorized, "Token não informado", nil, 0)
			return
		}

		user := AuthUser{}
		resp, err := a.client.R().
			SetContext(r.Context()).
			SetHeader("Authorization", token).
			SetResult(&user).
			Get("/api/user")
		if err != nil {
			a.logger.Warn("identity API unreachable", zap.Error(err))
			utils.SendResponse(w, http.StatusBadGateway, "Erro ao conectar na API de autenticação", nil, 0)
			return
		}

		if resp.StatusCode() != http.StatusOK {
			utils.SendResponse(w, http.StatusUnauthorized, "Token inválido ou usuário não autenticado", nil, 0)
			return
		}

		if user.UserID() == "" || user.Email == "" {
			utils.SendResponse(w, http.StatusUnauthorized, "Usuário inválido retornado pela autenticação", nil, 0)
			return
		}

		ctx := WithUser(r.Context(), user)
		ctx = audit.WithSession(ctx, user.Actor())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
