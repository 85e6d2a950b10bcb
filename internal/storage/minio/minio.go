// minio предоставляет реализацию storage.AvatarsStorage на базе MinIO/S3.
// minio.go — конструктор клиента MinIO: нормализует endpoint,
// настраивает Secure/creds и проверяет наличие целевого бакета.
// avatars.go — реализация методов поверх клиента MinIO:
//   - генерация presigned PUT URL для загрузки аватара/обложки;
//   - подтверждение загрузки (валидация факта, размера и типа).
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/BlueLaysLover/backend--yt/internal/config"
	"github.com/BlueLaysLover/backend--yt/internal/storage"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AvatarsStorage — адаптер MinIO для изображений профиля.
type AvatarsStorage struct {
	cfg    config.S3Config
	client *mclient.Client
}

// New создаёт и инициализирует клиент MinIO.
// Делает endpoint-перенастройку (убирает схему), подбирает Secure по схеме
// и выполняет fail-fast-проверку доступности бакета.
func New(ctx context.Context, cfg config.S3Config) (*AvatarsStorage, error) {
	const op = "storage.minio.New"

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.RootUser, cfg.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	return &AvatarsStorage{cfg: cfg, client: client}, nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.AvatarsStorage = (*AvatarsStorage)(nil)
