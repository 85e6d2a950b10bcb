// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает ошибку доменного слоя (сентинелы пакетов service и
// storage), а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Принципы маппинга:
//   - все отказы по токенам и учётным данным неразличимы снаружи: единый
//     401/unauthenticated (анти-энумерация аккаунтов, «please log in again»);
//   - конфликты уникальности -> 409;
//   - ошибки валидации входных полей -> 400 с текстом сентинела
//     (он не содержит пользовательских данных);
//   - всё прочее -> 500/internal без деталей.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/BlueLaysLover/backend--yt/internal/service"
	"github.com/BlueLaysLover/backend--yt/internal/storage"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ErrBadRequest — локальная ошибка разбора запроса в хендлере.
var ErrBadRequest = errors.New("bad request")

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный ответ.
//
// err == nil — это программная ошибка вызова: возвращаем 500/internal,
// чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := classify(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// classify — базовый маппинг доменных ошибок -> HTTP/FE-код/сообщение.
func classify(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"

	// Аутентификация: все варианты схлопнуты в единый 401.
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrMissingToken),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenReused):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"

	// Конфликты уникальности при регистрации.
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "already_exists", "email already taken"
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict, "already_exists", "username already taken"

	// Валидация входных полей.
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmptyPassword),
		errors.Is(err, service.ErrEmptyField),
		errors.Is(err, storage.ErrInvalidArgument),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"

	case errors.Is(err, storage.ErrUploadNotFound):
		return http.StatusNotFound, "not_found", "not found"

	case errors.Is(err, service.ErrAssetsDisabled):
		return http.StatusNotImplemented, "unimplemented", "unimplemented"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"

	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
