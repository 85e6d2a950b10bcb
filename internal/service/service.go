// service содержит бизнес-логику сессионного ядра:
// регистрацию/аутентификацию пользователей, выпуск/проверку пар токенов,
// ротацию refresh-токена и завершение сессии.
//
// Модель сессий: у аккаунта есть не более одного действующего refresh-токена
// (Account.CurrentRefreshToken). Login перезаписывает его безусловно, refresh
// меняет атомарным compare-and-set в хранилище, logout сбрасывает в NULL.
// Предъявление уже ротированного или отозванного refresh-токена трактуется
// как повторное использование (возможная кража) и принудительно завершает
// сессию целиком.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Ошибки возвращаются сентинелами и далее маппятся
//     транспортом на HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/BlueLaysLover/backend--yt/internal/cache"
	"github.com/BlueLaysLover/backend--yt/internal/config"
	"github.com/BlueLaysLover/backend--yt/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Внутри эти случаи различимы, наружу отдаются одинаково (анти-энумерация).
	// Транспорт: HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingToken — refresh-токен не предъявлен (ни cookie, ни тело запроса).
	// Транспорт: HTTP 401.
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи/типу,
	// либо субъект токена больше не существует. Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenReused — предъявлен refresh-токен, уже ротированный или отозванный.
	// Несёт обязательный побочный эффект: текущая сессия аккаунта принудительно
	// завершается (CurrentRefreshToken сбрасывается). Транспорт: HTTP 401.
	ErrTokenReused = errors.New("refresh token reused")

	// ErrEmailTaken — e-mail уже занят другим пользователем. Транспорт: HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrUsernameTaken — username уже занят. Транспорт: HTTP 409.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidEmail — e-mail имеет некорректный формат. Транспорт: HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidUsername — username не проходит политику. Транспорт: HTTP 400.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности.
	// Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. Транспорт: HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrEmptyField — обязательное поле запроса пустое. Транспорт: HTTP 400.
	ErrEmptyField = errors.New("required field is empty")
)

// Service описывает бизнес-логику сервиса аутентификации.
type Service struct {
	storage storage.Storage
	avatars storage.AvatarsStorage // может быть nil, если asset host не сконфигурирован
	hasher  PasswordHasher
	cfg     config.AuthConfig
	dcache  cache.SessionDenyCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		hasher:  BcryptHasher{},
		cfg:     cfg,
	}
}

// SetPasswordHasher заменяет алгоритм хэширования паролей (по умолчанию bcrypt).
func (s *Service) SetPasswordHasher(h PasswordHasher) {
	if h != nil {
		s.hasher = h
	}
}

// SetAvatarsStorage устанавливает внешнее хранилище изображений (опционально).
func (s *Service) SetAvatarsStorage(a storage.AvatarsStorage) {
	s.avatars = a
}

// SetDenyCache устанавливает кэш принудительно завершённых сессий (опционально).
func (s *Service) SetDenyCache(c cache.SessionDenyCache) {
	s.dcache = c
}
