package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BlueLaysLover/backend--yt/internal/config"
	"github.com/BlueLaysLover/backend--yt/internal/models"
	"github.com/BlueLaysLover/backend--yt/internal/service"
	"github.com/BlueLaysLover/backend--yt/internal/storage"
	"github.com/BlueLaysLover/backend--yt/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:    "unit-access-secret",
		RefreshSecret:   "unit-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
		Issuer:          "auth-service",
		Audience:        []string{"vidtube-web"},
	}
}

// plainHasher — быстрый хэшер вместо bcrypt для HTTP-тестов.
type plainHasher struct{}

func (plainHasher) Hash(pw string) (string, error) { return "plain:" + pw, nil }
func (plainHasher) Verify(pw, hash string) bool    { return "plain:"+pw == hash }

func newHandlers(t *testing.T) (*Handlers, *mocks.MockStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	svc := service.New(st, testAuthCfg())
	svc.SetPasswordHasher(plainHasher{})
	return New(svc, testAuthCfg()), st, ctrl
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// cookieByName находит Set-Cookie по имени.
func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestRegisterUser_Created_SetsCookies(t *testing.T) {
	t.Parallel()

	h, st, ctrl := newHandlers(t)
	defer ctrl.Finish()

	st.EXPECT().SaveAccount(gomock.Any(), gomock.Any()).Return(nil)
	st.EXPECT().SetRefreshToken(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	body := `{"full_name":"Alice Example","email":"alice@example.com","username":"alice","password":"Abcdef1!"}`
	rec := doJSON(t, h.RegisterUser, http.MethodPost, "/auth/register", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp.Account.Username)
	require.Equal(t, "alice@example.com", resp.Account.Email)
	require.False(t, resp.AccessExpiresAt.IsZero())

	// Хэш пароля и refresh-токен не возвращаются в теле.
	require.NotContains(t, rec.Body.String(), "password")
	require.NotContains(t, rec.Body.String(), "refresh")

	for _, name := range []string{cookieAccessToken, cookieRefreshToken} {
		c := cookieByName(t, rec, name)
		require.NotEmpty(t, c.Value)
		require.True(t, c.HttpOnly, "%s must be HttpOnly", name)
		require.True(t, c.Secure, "%s must be Secure", name)
		require.Equal(t, http.SameSiteLaxMode, c.SameSite)
		require.Equal(t, "/", c.Path)
	}
}

func TestRegisterUser_BadJSON_And_UnknownFields(t *testing.T) {
	t.Parallel()

	h, _, ctrl := newHandlers(t)
	defer ctrl.Finish()

	rec := doJSON(t, h.RegisterUser, http.MethodPost, "/auth/register", `{"full_name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Строгий декодер: неизвестные поля отклоняются.
	rec = doJSON(t, h.RegisterUser, http.MethodPost, "/auth/register", `{"full_name":"A","unknown":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterUser_Conflict(t *testing.T) {
	t.Parallel()

	h, st, ctrl := newHandlers(t)
	defer ctrl.Finish()

	st.EXPECT().SaveAccount(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists)
	st.EXPECT().AccountByLogin(gomock.Any(), "alice").
		Return(&models.Account{ID: uuid.New()}, nil)

	body := `{"full_name":"Alice","email":"alice@example.com","username":"alice","password":"Abcdef1!"}`
	rec := doJSON(t, h.RegisterUser, http.MethodPost, "/auth/register", body)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "already_exists")
}

func TestLoginUser_OK_IdentifierPriority(t *testing.T) {
	t.Parallel()

	h, st, ctrl := newHandlers(t)
	defer ctrl.Finish()

	account := &models.Account{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "plain:Abcdef1!",
	}

	// login > username > email.
	st.EXPECT().AccountByLogin(gomock.Any(), "alice").Return(account, nil)
	st.EXPECT().SetRefreshToken(gomock.Any(), account.ID, gomock.Any()).Return(nil)

	body := `{"login":"alice","email":"ignored@example.com","password":"Abcdef1!"}`
	rec := doJSON(t, h.LoginUser, http.MethodPost, "/auth/login", body)
	require.Equal(t, http.StatusOK, rec.Code)

	// Только email.
	st.EXPECT().AccountByLogin(gomock.Any(), "alice@example.com").Return(account, nil)
	st.EXPECT().SetRefreshToken(gomock.Any(), account.ID, gomock.Any()).Return(nil)

	body = `{"email":"alice@example.com","password":"Abcdef1!"}`
	rec = doJSON(t, h.LoginUser, http.MethodPost, "/auth/login", body)
	require.Equal(t, http.StatusOK, rec.Code)

	c := cookieByName(t, rec, cookieRefreshToken)
	require.NotEmpty(t, c.Value)
}

func TestLoginUser_InvalidCredentials_401(t *testing.T) {
	t.Parallel()

	h, st, ctrl := newHandlers(t)
	defer ctrl.Finish()

	st.EXPECT().AccountByLogin(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)

	rec := doJSON(t, h.LoginUser, http.MethodPost, "/auth/login", `{"login":"ghost","password":"x"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "unauthenticated")

	// Cookie не выставляются при отказе.
	require.Empty(t, rec.Result().Cookies())
}

// issueRefresh выпускает валидный refresh-токен через приватный путь сервиса:
// логином с мокнутым хранилищем.
func issueRefresh(t *testing.T, h *Handlers, st *mocks.MockStorage, account *models.Account) string {
	t.Helper()

	st.EXPECT().AccountByLogin(gomock.Any(), account.Username).Return(account, nil)
	st.EXPECT().SetRefreshToken(gomock.Any(), account.ID, gomock.Any()).Return(nil)

	rec := doJSON(t, h.LoginUser, http.MethodPost, "/auth/login",
		`{"login":"`+account.Username+`","password":"Abcdef1!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	return cookieByName(t, rec, cookieRefreshToken).Value
}

func TestRefreshTokens_FromCookie(t *testing.T) {
	t.Parallel()

	h, st, ctrl := newHandlers(t)
	defer ctrl.Finish()

	account := &models.Account{ID: uuid.New(), Username: "alice", PasswordHash: "plain:Abcdef1!"}
	refresh := issueRefresh(t, h, st, account)

	st.EXPECT().AccountByID(gomock.Any(), account.ID).Return(account, nil)
	st.EXPECT().SwapRefreshToken(gomock.Any(), account.ID, refresh, gomock.Any()).Return(true, nil)

	rec := doJSON(t, h.RefreshTokens, http.MethodPost, "/auth/refresh", "",
		func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: cookieRefreshToken, Value: refresh})
		})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp refreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.AccessExpiresAt.IsZero())

	// Новая пара cookie; refresh ротирован.
	newRefresh := cookieByName(t, rec, cookieRefreshToken).Value
	require.NotEmpty(t, newRefresh)
	require.NotEqual(t, refresh, newRefresh)
	require.NotEmpty(t, cookieByName(t, rec, cookieAccessToken).Value)
}

func TestRefreshTokens_FromBody(t *testing.T) {
	t.Parallel()

	h, st, ctrl := newHandlers(t)
	defer ctrl.Finish()

	account := &models.Account{ID: uuid.New(), Username: "alice", PasswordHash: "plain:Abcdef1!"}
	refresh := issueRefresh(t, h, st, account)

	st.EXPECT().AccountByID(gomock.Any(), account.ID).Return(account, nil)
	st.EXPECT().SwapRefreshToken(gomock.Any(), account.ID, refresh, gomock.Any()).Return(true, nil)

	rec := doJSON(t, h.RefreshTokens, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"`+refresh+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshTokens_Missing_Reused_401(t *testing.T) {
	t.Parallel()

	h, st, ctrl := newHandlers(t)
	defer ctrl.Finish()

	// Токен не предъявлен ни cookie, ни телом.
	rec := doJSON(t, h.RefreshTokens, http.MethodPost, "/auth/refresh", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Повтор уже ротированного токена.
	account := &models.Account{ID: uuid.New(), Username: "alice", PasswordHash: "plain:Abcdef1!"}
	refresh := issueRefresh(t, h, st, account)

	st.EXPECT().AccountByID(gomock.Any(), account.ID).Return(account, nil)
	st.EXPECT().SwapRefreshToken(gomock.Any(), account.ID, refresh, gomock.Any()).Return(false, nil)
	st.EXPECT().ClearRefreshToken(gomock.Any(), account.ID).Return(nil)

	rec = doJSON(t, h.RefreshTokens, http.MethodPost, "/auth/refresh", "",
		func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: cookieRefreshToken, Value: refresh})
		})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "unauthenticated")
}

func TestLogoutUser_WithoutAuthContext_401(t *testing.T) {
	t.Parallel()

	h, _, ctrl := newHandlers(t)
	defer ctrl.Finish()

	rec := doJSON(t, h.LogoutUser, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClearAuthCookies_ExpiresBoth(t *testing.T) {
	t.Parallel()

	h, _, ctrl := newHandlers(t)
	defer ctrl.Finish()

	rec := httptest.NewRecorder()
	h.clearAuthCookies(rec)

	for _, name := range []string{cookieAccessToken, cookieRefreshToken} {
		c := cookieByName(t, rec, name)
		require.Empty(t, c.Value)
		require.Equal(t, -1, c.MaxAge)
		require.True(t, c.HttpOnly)
		require.True(t, c.Secure)
	}
}
