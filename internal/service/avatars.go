package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BlueLaysLover/backend--yt/internal/storage"
	"github.com/google/uuid"
)

// ErrAssetsDisabled — внешнее хранилище изображений не сконфигурировано.
// Транспорт: HTTP 501.
var ErrAssetsDisabled = errors.New("asset storage is not configured")

// ImageUploadURL выдаёт presigned PUT URL для загрузки аватара или обложки.
func (s *Service) ImageUploadURL(ctx context.Context, accountID uuid.UUID, kind storage.ImageKind, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "service.avatars.ImageUploadURL"

	if s.avatars == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrAssetsDisabled)
	}

	info, err := s.avatars.UploadURL(ctx, accountID, kind, contentType, contentLength)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return info, nil
}

// ConfirmImageUpload подтверждает загрузку изображения и сохраняет публичный
// URL в аккаунте.
func (s *Service) ConfirmImageUpload(ctx context.Context, accountID uuid.UUID, kind storage.ImageKind, key string) (string, error) {
	const op = "service.avatars.ConfirmImageUpload"

	if s.avatars == nil {
		return "", fmt.Errorf("%s: %w", op, ErrAssetsDisabled)
	}

	publicURL, err := s.avatars.ConfirmUpload(ctx, accountID, kind, key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if kind == storage.ImageCover {
		err = s.storage.UpdateCoverURL(ctx, accountID, publicURL)
	} else {
		err = s.storage.UpdateAvatarURL(ctx, accountID, publicURL)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return publicURL, nil
}
