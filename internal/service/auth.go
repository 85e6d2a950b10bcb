package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/BlueLaysLover/backend--yt/internal/models"
	"github.com/BlueLaysLover/backend--yt/internal/pkg/log"
	"github.com/BlueLaysLover/backend--yt/internal/pkg/redact"
	"github.com/BlueLaysLover/backend--yt/internal/storage"
	"github.com/google/uuid"
)

// RegisterUser регистрирует нового пользователя и открывает его первую сессию.
func (s *Service) RegisterUser(ctx context.Context, fullName, email, username, password string) (*models.TokenPair, *models.Account, error) {
	const op = "service.auth.RegisterUser"

	if strings.TrimSpace(fullName) == "" {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrEmptyField)
	}

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	normUsername, err := validateUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePassword(password); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	account := &models.Account{
		ID:           uuid.New(),
		Username:     normUsername,
		Email:        normEmail,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, nil, fmt.Errorf("%s: %w", op, s.classifyTaken(ctx, normEmail, normUsername))
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.openSession(ctx, account)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, account, nil
}

// LoginUser выполняет вход по username-или-email + паролю.
// Новая сессия безусловно вытесняет предыдущую: старый refresh-токен
// становится недействительным, даже если ещё не истёк.
func (s *Service) LoginUser(ctx context.Context, login, password string) (*models.TokenPair, *models.Account, error) {
	const op = "service.auth.LoginUser"

	lg := log.From(ctx)

	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	account, err := s.storage.AccountByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Наружу неотличимо от неверного пароля.
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		lg.Warn("login_password_mismatch",
			slog.String("op", op),
			slog.String("login", redact.Login(login)),
		)
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.openSession(ctx, account)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, account, nil
}

// RefreshTokens обменивает refresh-токен на новую пару (ротация).
// Предъявленный токен становится недействительным в момент выпуска нового:
// замена выполняется одним атомарным compare-and-set в хранилище, поэтому из
// двух конкурентных refresh с одним токеном выигрывает ровно один.
func (s *Service) RefreshTokens(ctx context.Context, presented string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.RefreshTokens"

	lg := log.From(ctx)

	if presented == "" {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrMissingToken)
	}

	claims, err := s.verifyToken(presented, models.KindRefresh)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	account, err := s.storage.AccountByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Аккаунт исчез — наружу неотличимо от битого токена.
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokenPair(account.ID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	swapped, err := s.storage.SwapRefreshToken(ctx, account.ID, presented, pair.RefreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if !swapped {
		// Повтор уже ротированного или отозванного токена: сигнал возможной
		// кражи. Не просто отклоняем запрос — принудительно завершаем сессию.
		lg.Warn("refresh_reuse_detected",
			slog.String("op", op),
			slog.String("account_id", account.ID.String()),
		)

		if err := s.storage.ClearRefreshToken(ctx, account.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			lg.Error("forced_logout_failed",
				slog.String("op", op),
				slog.String("account_id", account.ID.String()),
				slog.String("err", err.Error()),
			)
		}
		s.markSessionKilled(ctx, account.ID)

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenReused)
	}

	return pair, account.ID, nil
}

// LogoutUser завершает сессию аккаунта.
// Идемпотентен: повторный logout уже разлогиненного аккаунта успешен.
func (s *Service) LogoutUser(ctx context.Context, accountID uuid.UUID) error {
	const op = "service.auth.LogoutUser"

	if err := s.storage.ClearRefreshToken(ctx, accountID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	s.markSessionKilled(ctx, accountID)

	return nil
}

// ValidateToken проверяет access-токен и возвращает его claims.
// Проверка не обращается к хранилищу; опциональный кэш «убитых» сессий
// отклоняет access-токены, выпущенные до принудительного завершения сессии.
func (s *Service) ValidateToken(ctx context.Context, accessToken string) (*models.TokenClaims, error) {
	const op = "service.auth.ValidateToken"

	claims, err := s.verifyToken(accessToken, models.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.dcache != nil {
		killed, err := s.dcache.IsKilled(ctx, claims.UserID, claims.IssuedAt)
		if err != nil {
			// Кэш — необязательное ужесточение; при его сбое не валим запрос.
			log.From(ctx).Error("deny_cache_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		} else if killed {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
	}

	return claims, nil
}

// openSession выпускает пару токенов и безусловно записывает refresh-токен
// как текущий (единственный) для аккаунта.
func (s *Service) openSession(ctx context.Context, account *models.Account) (*models.TokenPair, error) {
	const op = "service.auth.openSession"

	pair, err := s.issueTokenPair(account.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SetRefreshToken(ctx, account.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

// markSessionKilled помечает момент принудительного завершения сессии в кэше,
// чтобы уже выпущенные access-токены отклонялись до их естественного истечения.
func (s *Service) markSessionKilled(ctx context.Context, accountID uuid.UUID) {
	if s.dcache == nil {
		return
	}

	until := time.Now().UTC().Add(s.cfg.AccessTokenTTL)
	if err := s.dcache.MarkKilled(ctx, accountID, until); err != nil {
		log.From(ctx).Error("deny_cache_mark_failed",
			slog.String("account_id", accountID.String()),
			slog.String("err", err.Error()),
		)
	}
}

// classifyTaken уточняет, какое из уникальных полей занято.
// Если определить не удалось — сообщаем про email.
func (s *Service) classifyTaken(ctx context.Context, email, username string) error {
	if _, err := s.storage.AccountByLogin(ctx, username); err == nil {
		return ErrUsernameTaken
	}

	if _, err := s.storage.AccountByLogin(ctx, email); err == nil {
		return ErrEmailTaken
	}

	return ErrEmailTaken
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// validateUsername нормализует username и проверяет политику:
// 3–32 символа, латиница/цифры/._-, без '@' (иначе пересекается с email-логином).
func validateUsername(raw string) (string, error) {
	const op = "service.auth.validateUsername"

	username := strings.ToLower(strings.TrimSpace(raw))
	if len(username) < 3 || len(username) > 32 {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
	}

	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
		}
	}

	return username, nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика по умолчанию: длина >= 8, хотя бы одна строчная, заглавная, цифра и спецсимвол.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
