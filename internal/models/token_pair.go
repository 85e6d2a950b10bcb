package models

import "time"

// TokenPair — пара токенов, выдаваемая при регистрации/входе/обновлении.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API; на сервере не хранится;
//   - RefreshToken — долгоживущий JWT для выпуска новой пары; его значение
//     сохраняется в Account.CurrentRefreshToken до следующей ротации;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	// AccessToken — JWT для авторизации запросов.
	AccessToken string
	// RefreshToken — JWT для обновления пары.
	RefreshToken string
	// AccessExpiresAt — время истечения действия access-токена (UTC).
	AccessExpiresAt time.Time
}
