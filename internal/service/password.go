package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher абстрагирует алгоритм хэширования пароля, чтобы его можно
// было заменить, не трогая логику сессий. Verify обязан быть чистой функцией
// от двух аргументов: на несовпадении возвращает false, не ошибку.
type PasswordHasher interface {
	// Hash хэширует пароль.
	Hash(password string) (string, error)
	// Verify сравнивает пароль с хэшем.
	Verify(password, hash string) bool
}

// BcryptHasher — реализация PasswordHasher на bcrypt (соль и
// константное по времени сравнение внутри алгоритма).
type BcryptHasher struct {
	// Cost — стоимость bcrypt; 0 означает bcrypt.DefaultCost.
	Cost int
}

// Hash хэширует пароль с помощью bcrypt.
func (h BcryptHasher) Hash(password string) (string, error) {
	const op = "service.password.Hash"

	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// Verify сравнивает пароль с хэшем. Любая ошибка (в т.ч. битый хэш) — false.
func (h BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var _ PasswordHasher = BcryptHasher{}
