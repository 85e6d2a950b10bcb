package handlers

import (
	"time"

	"github.com/BlueLaysLover/backend--yt/internal/models"
)

// registerRequest — тело POST /auth/register.
type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginRequest — тело POST /auth/login.
// Идентификатор входа принимается в любом из трёх полей; приоритет: login,
// затем username, затем email.
type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) identifier() string {
	switch {
	case r.Login != "":
		return r.Login
	case r.Username != "":
		return r.Username
	default:
		return r.Email
	}
}

// refreshRequest — тело POST /auth/refresh (используется, если нет cookie).
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// accountResponse — публичное представление аккаунта:
// без хэша пароля и без refresh-токена.
type accountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CoverURL  string    `json:"cover_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func accountFrom(a *models.Account) accountResponse {
	return accountResponse{
		ID:        a.ID.String(),
		Username:  a.Username,
		Email:     a.Email,
		FullName:  a.FullName,
		AvatarURL: a.AvatarURL,
		CoverURL:  a.CoverURL,
		CreatedAt: a.CreatedAt,
	}
}

// authResponse — ответ register/login.
type authResponse struct {
	Account         accountResponse `json:"account"`
	AccessExpiresAt time.Time       `json:"access_expires_at"`
}

// refreshResponse — ответ refresh.
type refreshResponse struct {
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

// presignRequest — тело POST /auth/avatar/presign.
type presignRequest struct {
	Kind          string `json:"kind"`
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

// presignResponse — presigned PUT URL и обязательные заголовки загрузки.
type presignResponse struct {
	UploadURL      string            `json:"upload_url"`
	Key            string            `json:"key"`
	ExpiresSec     int64             `json:"expires_sec"`
	RequiredHeader map[string]string `json:"required_header"`
}

// confirmRequest — тело POST /auth/avatar/confirm.
type confirmRequest struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
}

// confirmResponse — публичный URL подтверждённого изображения.
type confirmResponse struct {
	URL string `json:"url"`
}
