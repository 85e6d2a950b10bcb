package handlers

import (
	"net/http"
	"time"

	"github.com/BlueLaysLover/backend--yt/internal/models"
)

// Имена cookie пары токенов.
const (
	cookieAccessToken  = "accessToken"
	cookieRefreshToken = "refreshToken"
)

// authCookie — общие атрибуты обоих cookie: HttpOnly и Secure обязательны,
// токены не должны быть доступны скриптам и ходить по открытому каналу.
func authCookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// setAuthCookies выставляет оба cookie: access до истечения access-токена,
// refresh — на весь срок жизни refresh-токена.
func (h *Handlers) setAuthCookies(w http.ResponseWriter, pair *models.TokenPair) {
	http.SetCookie(w, authCookie(cookieAccessToken, pair.AccessToken, pair.AccessExpiresAt))
	http.SetCookie(w, authCookie(cookieRefreshToken, pair.RefreshToken, time.Now().UTC().Add(h.Auth.RefreshTokenTTL)))
}

// clearAuthCookies гасит оба cookie с теми же атрибутами, что и при выдаче.
func (h *Handlers) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{cookieAccessToken, cookieRefreshToken} {
		c := authCookie(name, "", time.Unix(0, 0).UTC())
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}
