package storage

import (
	"context"
	"errors"

	"github.com/BlueLaysLover/backend--yt/internal/models"
	"github.com/google/uuid"
)

//go:generate mockgen -source=storage.go -destination=../../mocks/mock_storage.go -package=mocks

var (
	// ErrNotFound — запись не найдена (аккаунт).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (username/email).
	ErrAlreadyExists = errors.New("already exists")
)

// AccountStorage выполняет операции над учётными записями.
type AccountStorage interface {
	// SaveAccount создаёт новый аккаунт в БД.
	SaveAccount(ctx context.Context, account *models.Account) error
	// AccountByLogin находит аккаунт по username или email.
	AccountByLogin(ctx context.Context, login string) (*models.Account, error)
	// AccountByID находит аккаунт по ID.
	AccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	// UpdateAvatarURL сохраняет публичный URL аватара.
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, url string) error
	// UpdateCoverURL сохраняет публичный URL обложки.
	UpdateCoverURL(ctx context.Context, id uuid.UUID, url string) error
}

// SessionStorage управляет текущим refresh-токеном аккаунта.
//
// Единственное разделяемое изменяемое состояние сервиса — колонка
// current_refresh_token; SwapRefreshToken обязан выполняться атомарно
// на стороне хранилища (conditional update), иначе два конкурентных
// refresh с одним токеном дадут две живые сессии.
type SessionStorage interface {
	// SetRefreshToken безусловно перезаписывает текущий refresh-токен (login).
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error
	// SwapRefreshToken атомарно заменяет refresh-токен, только если хранимое
	// значение всё ещё равно expected. Возвращает false при несовпадении,
	// включая случай NULL (сессия уже завершена).
	SwapRefreshToken(ctx context.Context, id uuid.UUID, expected, next string) (bool, error)
	// ClearRefreshToken сбрасывает refresh-токен в NULL (logout). Идемпотентен.
	ClearRefreshToken(ctx context.Context, id uuid.UUID) error
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	AccountStorage
	SessionStorage
	Close()
}
