// handlers реализует REST-эндпоинты сервиса аутентификации.
// Здесь выполняется только разбор запросов, маппинг данных/ошибок доменного
// слоя (service) в HTTP и работа с cookie. Вся валидация и бизнес-логика
// находятся в пакете service.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/BlueLaysLover/backend--yt/internal/config"
	"github.com/BlueLaysLover/backend--yt/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	Service *service.Service
	Auth    config.AuthConfig
}

func New(s *service.Service, auth config.AuthConfig) *Handlers {
	return &Handlers{Service: s, Auth: auth}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
