package minio

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/BlueLaysLover/backend--yt/internal/storage"
	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
)

// UploadURL генерирует presigned PUT URL для загрузки изображения профиля.
// Валидирует contentType и contentLength согласно конфигу, формирует ключ вида
// "<kind>s/<userID>/<uuid>.<ext>" и возвращает также набор заголовков,
// которые клиент должен передать при PUT (будут проверены при подтверждении).
func (s *AvatarsStorage) UploadURL(ctx context.Context, userID uuid.UUID, kind storage.ImageKind, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "storage.minio.UploadURL"

	if kind != storage.ImageAvatar && kind != storage.ImageCover {
		return nil, storage.ErrInvalidArgument
	}

	if contentLength <= 0 || contentLength > s.cfg.Image.MaxSizeBytes {
		return nil, storage.ErrInvalidArgument
	}

	if !isAllowedContentType(s.cfg.Image.AllowedContentTypes, contentType) {
		return nil, storage.ErrInvalidArgument
	}

	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	default:
		ext = ""
	}

	// Ключ вида: avatars/<userID>/<uuid>.<ext> или covers/<userID>/<uuid>.<ext>.
	key := path.Join(string(kind)+"s", userID.String(), uuid.NewString()+ext)

	url, err := s.client.PresignedPutObject(ctx, s.cfg.Bucket, key, s.cfg.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	info := &storage.UploadInfo{
		UploadURL: url.String(),
		Key:       key,
		Expires:   s.cfg.PresignTTL,
		RequiredHeader: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": fmt.Sprintf("%d", contentLength),
		},
	}

	return info, nil
}

// ConfirmUpload подтверждает факт загрузки по key:
// проверяет, что объект существует и удовлетворяет ограничениям размера/типа.
// Возвращает публичный URL (если PublicBaseURL задан), иначе — пустую строку.
func (s *AvatarsStorage) ConfirmUpload(ctx context.Context, userID uuid.UUID, kind storage.ImageKind, key string) (string, error) {
	const op = "storage.minio.ConfirmUpload"

	prefix := string(kind) + "s/" + userID.String() + "/"
	if !strings.HasPrefix(key, prefix) {
		return "", storage.ErrInvalidArgument
	}

	objInfo, err := s.client.StatObject(ctx, s.cfg.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return "", storage.ErrUploadNotFound
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if objInfo.Size <= 0 || objInfo.Size > s.cfg.Image.MaxSizeBytes {
		return "", storage.ErrInvalidArgument
	}

	if ct := objInfo.ContentType; ct != "" && !isAllowedContentType(s.cfg.Image.AllowedContentTypes, ct) {
		return "", storage.ErrInvalidArgument
	}

	if s.cfg.PublicBaseURL == "" {
		return "", nil
	}

	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")

	return base + "/" + key, nil
}

// isAllowedContentType проверяет, что тип содержимого входит в allow-list.
func isAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if a == contentType {
			return true
		}
	}

	return false
}
