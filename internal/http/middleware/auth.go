package middleware

import (
	"context"
	"net/http"
	"strings"

	apierrors "github.com/BlueLaysLover/backend--yt/internal/errors"
	"github.com/BlueLaysLover/backend--yt/internal/models"
	"github.com/BlueLaysLover/backend--yt/internal/service"
	"github.com/google/uuid"
)

// CookieAccessToken — имя cookie с access-токеном.
const CookieAccessToken = "accessToken"

// TokenValidator — контракт проверки access-токена (реализуется service.Service).
type TokenValidator interface {
	ValidateToken(ctx context.Context, accessToken string) (*models.TokenClaims, error)
}

type accountIDKey struct{}

// AccountID достаёт ID аутентифицированного аккаунта из контекста.
func AccountID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountIDKey{}).(uuid.UUID)
	return id, ok
}

// Authenticate требует валидный access-токен: из cookie accessToken либо из
// заголовка Authorization: Bearer. Кладёт ID аккаунта в контекст запроса.
func Authenticate(v TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := accessTokenFrom(r)
			if token == "" {
				apierrors.WriteError(w, r, service.ErrMissingToken)
				return
			}

			claims, err := v.ValidateToken(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey{}, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// accessTokenFrom извлекает access-токен: cookie имеет приоритет над Bearer.
func accessTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(CookieAccessToken); err == nil && c.Value != "" {
		return c.Value
	}

	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}

	return ""
}
