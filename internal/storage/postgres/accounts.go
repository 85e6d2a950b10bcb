package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/BlueLaysLover/backend--yt/internal/models"
	"github.com/BlueLaysLover/backend--yt/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const accountColumns = `id, username, email, full_name, password_hash,
		current_refresh_token, avatar_url, cover_url, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.FullName,
		&account.PasswordHash,
		&account.CurrentRefreshToken,
		&account.AvatarURL,
		&account.CoverURL,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// SaveAccount создаёт новый аккаунт в БД.
func (s *Storage) SaveAccount(ctx context.Context, account *models.Account) error {
	const op = "storage.postgres.SaveAccount"

	query := `
		INSERT INTO accounts(id, username, email, full_name, password_hash,
			current_refresh_token, avatar_url, cover_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.Exec(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.FullName,
		account.PasswordHash,
		account.CurrentRefreshToken,
		account.AvatarURL,
		account.CoverURL,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AccountByLogin находит аккаунт по username или email.
func (s *Storage) AccountByLogin(ctx context.Context, login string) (*models.Account, error) {
	const op = "storage.postgres.AccountByLogin"

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE username = $1 OR email = $1
	`

	account, err := scanAccount(s.db.QueryRow(ctx, query, login))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return account, nil
}

// AccountByID находит аккаунт по ID.
func (s *Storage) AccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	const op = "storage.postgres.AccountByID"

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`

	account, err := scanAccount(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return account, nil
}

// UpdateAvatarURL сохраняет публичный URL аватара.
func (s *Storage) UpdateAvatarURL(ctx context.Context, id uuid.UUID, url string) error {
	const op = "storage.postgres.UpdateAvatarURL"

	query := `
		UPDATE accounts
		SET avatar_url = $2, updated_at = now()
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// UpdateCoverURL сохраняет публичный URL обложки.
func (s *Storage) UpdateCoverURL(ctx context.Context, id uuid.UUID, url string) error {
	const op = "storage.postgres.UpdateCoverURL"

	query := `
		UPDATE accounts
		SET cover_url = $2, updated_at = now()
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
