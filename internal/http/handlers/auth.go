package handlers

import (
	"net/http"

	apierrors "github.com/BlueLaysLover/backend--yt/internal/errors"
	"github.com/BlueLaysLover/backend--yt/internal/http/middleware"
	"github.com/BlueLaysLover/backend--yt/internal/service"
)

// RegisterUser регистрирует пользователя, открывает сессию и выставляет cookie.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	pair, account, err := h.Service.RegisterUser(r.Context(), in.FullName, in.Email, in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusCreated, authResponse{
		Account:         accountFrom(account),
		AccessExpiresAt: pair.AccessExpiresAt,
	})
}

// LoginUser выполняет вход и выставляет cookie пары токенов.
func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrBadRequest)
		return
	}

	pair, account, err := h.Service.LoginUser(r.Context(), in.identifier(), in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, authResponse{
		Account:         accountFrom(account),
		AccessExpiresAt: pair.AccessExpiresAt,
	})
}

// RefreshTokens обменивает refresh-токен на новую пару.
// Токен берётся из cookie refreshToken; если его нет — из тела запроса.
func (h *Handlers) RefreshTokens(w http.ResponseWriter, r *http.Request) {
	presented := ""
	if c, err := r.Cookie(cookieRefreshToken); err == nil {
		presented = c.Value
	}

	if presented == "" && r.Body != nil && r.ContentLength != 0 {
		var in refreshRequest
		if err := decodeStrict(r, &in); err != nil {
			apierrors.WriteError(w, r, apierrors.ErrBadRequest)
			return
		}
		presented = in.RefreshToken
	}

	pair, _, err := h.Service.RefreshTokens(r.Context(), presented)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, refreshResponse{AccessExpiresAt: pair.AccessExpiresAt})
}

// LogoutUser завершает сессию и гасит cookie.
// Требует аутентификацию (middleware.Authenticate).
func (h *Handlers) LogoutUser(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	if err := h.Service.LogoutUser(r.Context(), accountID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
