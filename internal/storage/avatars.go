package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidArgument — некорректные параметры загрузки (тип/размер/ключ).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUploadNotFound — объект по ключу не найден в бакете.
	ErrUploadNotFound = errors.New("upload not found")
)

// ImageKind — вид изображения профиля.
type ImageKind string

const (
	ImageAvatar ImageKind = "avatar"
	ImageCover  ImageKind = "cover"
)

// UploadInfo — данные для presigned-загрузки изображения.
type UploadInfo struct {
	// UploadURL — presigned PUT URL.
	UploadURL string
	// Key — ключ объекта в бакете.
	Key string
	// Expires — срок действия ссылки.
	Expires time.Duration
	// RequiredHeader — заголовки, обязательные при PUT.
	RequiredHeader map[string]string
}

//go:generate mockgen -source=avatars.go -destination=../../mocks/mock_avatars.go -package=mocks

// AvatarsStorage — контракт внешнего хранилища изображений (asset host).
// Сервис не принимает файлы сам: клиент грузит напрямую по presigned URL,
// затем подтверждает загрузку.
type AvatarsStorage interface {
	// UploadURL генерирует presigned PUT URL для загрузки изображения.
	UploadURL(ctx context.Context, userID uuid.UUID, kind ImageKind, contentType string, contentLength int64) (*UploadInfo, error)
	// ConfirmUpload проверяет факт загрузки по ключу и возвращает публичный URL.
	ConfirmUpload(ctx context.Context, userID uuid.UUID, kind ImageKind, key string) (string, error)
}
