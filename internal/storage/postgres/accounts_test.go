package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/BlueLaysLover/backend--yt/internal/models"
	"github.com/BlueLaysLover/backend--yt/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Файл интеграционных тестов для пакета postgres (репозиторий accounts.go):
// - поднимает реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// - применяет миграции из ./migrations (1_init_accounts.up.sql);
// - проверяет happy-path (создание и поиск по login/ID), уникальность username и email (CITEXT);
// - валидирует сценарии отсутствия записей (storage.ErrNotFound) и корректную обработку ошибок контекста (Canceled/DeadlineExceeded).
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — определяет корень репозитория относительно текущего файла тестов.
// Используется для поиска SQL-миграций в каталоге ./migrations независимо от текущего рабочего каталога.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает содержимое SQL-миграции из подкаталога ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	root := repoRootFromThisFile()
	path := filepath.Join(root, "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает временный экземпляр PostgreSQL через testcontainers-go,
// применяет миграцию accounts и возвращает инициализированное хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// применяем миграции.
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, readMigration(t, "1_init_accounts.up.sql"))
	require.NoError(t, err)

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// newTestAccount — аккаунт с заполненными обязательными полями.
func newTestAccount(username, email string) *models.Account {
	now := time.Now().UTC()
	return &models.Account{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// TestIntegration_SaveAccount_And_ByLogin_And_ByID_OK — happy-path:
// сохранение аккаунта и последующий поиск по username, email и ID.
func TestIntegration_SaveAccount_And_ByLogin_And_ByID_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	a := newTestAccount("alice", "Alice@Example.Com")
	require.NoError(t, st.SaveAccount(context.Background(), a))

	byUsername, err := st.AccountByLogin(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, a.ID, byUsername.ID)
	require.Nil(t, byUsername.CurrentRefreshToken)
	require.WithinDuration(t, a.CreatedAt, byUsername.CreatedAt, time.Second)

	// email — CITEXT: поиск регистронезависим.
	byEmail, err := st.AccountByLogin(context.Background(), strings.ToLower(a.Email))
	require.NoError(t, err)
	require.Equal(t, a.ID, byEmail.ID)

	byID, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, byID.ID)
}

// TestIntegration_SaveAccount_UniqueViolations — конфликты уникальности по
// username и email (в т.ч. при различии только в регистре), ожидаем storage.ErrAlreadyExists.
func TestIntegration_SaveAccount_UniqueViolations(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	a := newTestAccount("alice", "alice@example.com")
	require.NoError(t, st.SaveAccount(context.Background(), a))

	sameUsername := newTestAccount("ALICE", "other@example.com")
	err := st.SaveAccount(context.Background(), sameUsername)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	sameEmail := newTestAccount("bob", "ALICE@EXAMPLE.COM")
	err = st.SaveAccount(context.Background(), sameEmail)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// TestIntegration_AccountLookups_NotFound — поиск отсутствующих записей,
// ожидаем storage.ErrNotFound.
func TestIntegration_AccountLookups_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.AccountByLogin(context.Background(), "absent")
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.AccountByID(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_UpdateImageURLs — обновление avatar_url/cover_url и
// storage.ErrNotFound для несуществующего аккаунта.
func TestIntegration_UpdateImageURLs(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	a := newTestAccount("alice", "alice@example.com")
	require.NoError(t, st.SaveAccount(context.Background(), a))

	require.NoError(t, st.UpdateAvatarURL(context.Background(), a.ID, "https://cdn/avatar.png"))
	require.NoError(t, st.UpdateCoverURL(context.Background(), a.ID, "https://cdn/cover.png"))

	got, err := st.AccountByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, "https://cdn/avatar.png", got.AvatarURL)
	require.Equal(t, "https://cdn/cover.png", got.CoverURL)

	err = st.UpdateAvatarURL(context.Background(), uuid.New(), "https://cdn/x.png")
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_SaveAccount_ContextDeadlineExceeded — SaveAccount с мгновенным
// дедлайном должен завершиться ошибкой context.DeadlineExceeded.
func TestIntegration_SaveAccount_ContextDeadlineExceeded(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()

	err := st.SaveAccount(ctx, newTestAccount("deadline", "deadline@example.com"))
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestIntegration_AccountQueries_ContextCanceled — отменённый контекст должен
// «просочиться» в ошибки чтения как context.Canceled.
func TestIntegration_AccountQueries_ContextCanceled(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // отменяем заранее

	_, err := st.AccountByLogin(ctx, "alice")
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)

	_, err = st.AccountByID(ctx, uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}
