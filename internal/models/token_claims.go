package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind — назначение токена в паре.
type TokenKind string

const (
	// KindAccess — короткоживущий токен доступа.
	KindAccess TokenKind = "access"
	// KindRefresh — долгоживущий токен обновления.
	KindRefresh TokenKind = "refresh"
)

// TokenClaims — расшифрованное содержимое токена.
// Используется только транзиентно при проверке и никогда не сохраняется.
type TokenClaims struct {
	UserID    uuid.UUID
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}
