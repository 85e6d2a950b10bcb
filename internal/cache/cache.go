// cache — опциональный Redis-кэш принудительно завершённых сессий.
//
// При logout и при детекте повторного использования refresh-токена сервис
// помечает аккаунт «убитым» на остаток срока жизни access-токена; проверка
// access-токена отклоняет токены, выпущенные до этой отметки. Без кэша
// access-токены остаются честно stateless и доживают свой TTL.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionDenyCache — минимальный контракт кэша «убитых» сессий.
type SessionDenyCache interface {
	// MarkKilled запоминает момент завершения сессии аккаунта до указанного времени.
	MarkKilled(ctx context.Context, accountID uuid.UUID, until time.Time) error
	// IsKilled сообщает, была ли сессия аккаунта завершена после выпуска токена.
	IsKilled(ctx context.Context, accountID uuid.UUID, issuedAt time.Time) (bool, error)
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "auth:kill:".
func NewRedisCache(redisURL, prefix string) (SessionDenyCache, error) {
	if prefix == "" {
		prefix = "auth:kill:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(accountID uuid.UUID) string { return c.prefix + accountID.String() }

// Храним unix-время (секунды) момента завершения сессии; TTL — до истечения
// последнего access-токена, выпущенного перед завершением.
func (c *redisCache) MarkKilled(ctx context.Context, accountID uuid.UUID, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	killedAt := strconv.FormatInt(time.Now().UTC().Unix(), 10)

	return c.rdb.Set(ctx, c.key(accountID), killedAt, ttl).Err()
}

func (c *redisCache) IsKilled(ctx context.Context, accountID uuid.UUID, issuedAt time.Time) (bool, error) {
	val, err := c.rdb.Get(ctx, c.key(accountID)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}

		return false, err
	}

	killedUnix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, err
	}

	// Небольшой люфт на рассинхронизацию часов: токен, выпущенный в ту же
	// секунду, что и отметка, считаем выпущенным до неё.
	return issuedAt.Unix() <= killedUnix, nil
}

func (c *redisCache) Close() error { return c.rdb.Close() }
