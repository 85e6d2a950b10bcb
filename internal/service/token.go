package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/BlueLaysLover/backend--yt/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenClaims — полезная нагрузка обоих видов токенов.
// Claim kind жёстко разделяет access и refresh: токен одного вида не
// пройдёт проверку как другой, даже не учитывая разные секреты подписи.
type tokenClaims struct {
	UserID string `json:"uid"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// secretFor возвращает ключ подписи для вида токена.
// Ключи обязаны различаться (см. config.AuthConfig).
func (s *Service) secretFor(kind models.TokenKind) []byte {
	if kind == models.KindRefresh {
		return []byte(s.cfg.RefreshSecret)
	}

	return []byte(s.cfg.AccessSecret)
}

// ttlFor возвращает срок жизни для вида токена.
func (s *Service) ttlFor(kind models.TokenKind) time.Duration {
	if kind == models.KindRefresh {
		return s.cfg.RefreshTokenTTL
	}

	return s.cfg.AccessTokenTTL
}

// issueToken выпускает подписанный токен заданного вида.
// Уникальный jti гарантирует, что два выпуска для одного субъекта в один
// момент времени дают разные строки.
func (s *Service) issueToken(userID uuid.UUID, kind models.TokenKind, now time.Time) (string, error) {
	const op = "service.token.issueToken"

	claims := tokenClaims{
		UserID: userID.String(),
		Kind:   string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttlFor(kind))),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings(s.cfg.Audience),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretFor(kind))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// verifyToken проверяет подпись, срок и вид токена.
// Проверка чисто криптографическая/структурная: хранилище не участвует.
func (s *Service) verifyToken(tokenStr string, kind models.TokenKind) (*models.TokenClaims, error) {
	const op = "service.token.verifyToken"

	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return s.secretFor(kind), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience...),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.Kind != string(kind) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	out := &models.TokenClaims{
		UserID: uid,
		Kind:   kind,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}

	return out, nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Пара не сохраняется здесь: запись refresh-токена в хранилище — забота
// вызывающего (безусловная при login, compare-and-set при refresh).
func (s *Service) issueTokenPair(userID uuid.UUID) (*models.TokenPair, error) {
	const op = "service.token.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.issueToken(userID, models.KindAccess, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.issueToken(userID, models.KindRefresh, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}
