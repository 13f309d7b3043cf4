package lock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ, только если он все еще принадлежит нам
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	defaultLockTTL       = 10 * time.Second
	defaultRetryInterval = 25 * time.Millisecond
	maxRetryInterval     = 250 * time.Millisecond
	releaseTimeout       = 2 * time.Second
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RedisLocker распределенная блокировка мастера для нескольких инстансов сервиса.
// SET NX PX с уникальным токеном, снятие через compare-and-delete.
type RedisLocker struct {
	rdb           redis.UniversalClient
	prefix        string
	ttl           time.Duration
	retryInterval time.Duration
	logger        Logger
}

// NewRedisLocker создает RedisLocker. Нулевые ttl и retryInterval заменяются значениями по умолчанию.
func NewRedisLocker(rdb redis.UniversalClient, prefix string, ttl, retryInterval time.Duration, logger Logger) *RedisLocker {
	if prefix == "" {
		prefix = "ink:lock:resource"
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}
	return &RedisLocker{
		rdb:           rdb,
		prefix:        prefix,
		ttl:           ttl,
		retryInterval: retryInterval,
		logger:        logger,
	}
}

// Lock пытается взять ключ мастера, повторяя с растущей паузой до отмены контекста
func (l *RedisLocker) Lock(ctx context.Context, resourceID int64) (Unlock, error) {
	key := l.key(resourceID)
	token := uuid.NewString()
	wait := l.retryInterval

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Join(ErrLockTimeout, ctx.Err())
			}
			return nil, fmt.Errorf("%w: redis SET NX %s: %v", ErrLockTimeout, key, err)
		}
		if ok {
			return l.unlockFunc(key, token), nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Join(ErrLockTimeout, ctx.Err())
		case <-timer.C:
		}

		wait *= 2
		if wait > maxRetryInterval {
			wait = maxRetryInterval
		}
	}
}

func (l *RedisLocker) Name() string {
	return "redis"
}

func (l *RedisLocker) key(resourceID int64) string {
	return l.prefix + ":" + strconv.FormatInt(resourceID, 10)
}

func (l *RedisLocker) unlockFunc(key, token string) Unlock {
	return func() {
		// Контекст запроса может быть уже отменен, снимаем блокировку отдельно
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()

		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil && l.logger != nil {
			l.logger.Warn("RedisLocker: failed to release %s: %v", key, err)
		}
	}
}
