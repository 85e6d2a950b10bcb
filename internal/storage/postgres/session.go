package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/BlueLaysLover/backend--yt/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SetRefreshToken безусловно перезаписывает текущий refresh-токен аккаунта.
// Используется при login: новая сессия вытесняет любую предыдущую, в том
// числе ещё не истёкшую.
func (s *Storage) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	const op = "storage.postgres.SetRefreshToken"

	query := `
		UPDATE accounts
		SET current_refresh_token = $2, updated_at = now()
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// SwapRefreshToken атомарно заменяет refresh-токен аккаунта, только если
// хранимое значение всё ещё равно expected (compare-and-set одним UPDATE).
// Возвращает:
//
//	(true, nil)  — значение совпало и заменено;
//	(false, nil) — аккаунт существует, но значение не совпало (в т.ч. NULL);
//	(false, ErrNotFound) — аккаунт не найден.
func (s *Storage) SwapRefreshToken(ctx context.Context, id uuid.UUID, expected, next string) (bool, error) {
	const op = "storage.postgres.SwapRefreshToken"

	const upd = `
		UPDATE accounts
		SET current_refresh_token = $3, updated_at = now()
		WHERE id = $1 AND current_refresh_token = $2
		RETURNING id
	`

	var swappedID uuid.UUID
	err := s.db.QueryRow(ctx, upd, id, expected, next).Scan(&swappedID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	const sel = `
		SELECT 1
		FROM accounts
		WHERE id = $1
	`

	var one int
	err = s.db.QueryRow(ctx, sel, id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return false, nil
}

// ClearRefreshToken сбрасывает refresh-токен аккаунта в NULL.
// Идемпотентен: повторный вызов для уже разлогиненного аккаунта успешен.
func (s *Storage) ClearRefreshToken(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.ClearRefreshToken"

	query := `
		UPDATE accounts
		SET current_refresh_token = NULL, updated_at = now()
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
