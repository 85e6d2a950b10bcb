package models

import (
	"time"

	"github.com/google/uuid"
)

// Account — учётная запись пользователя видеоплатформы.
//
// CurrentRefreshToken хранит единственный действующий refresh-токен аккаунта;
// nil означает, что активной сессии нет. Инвариант: значение либо nil, либо
// в точности равно последнему выданному refresh-токену — устаревшие
// (ротированные) значения здесь появляться не должны.
type Account struct {
	ID                  uuid.UUID
	Username            string
	Email               string
	FullName            string
	PasswordHash        string
	CurrentRefreshToken *string
	AvatarURL           string
	CoverURL            string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
