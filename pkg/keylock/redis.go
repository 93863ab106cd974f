package keylock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ, только если он принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis распределенная блокировка (SET NX PX) для нескольких экземпляров сервиса
type Redis struct {
	client       redis.UniversalClient
	prefix       string
	ttl          time.Duration
	pollInterval time.Duration
	logger       Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration, logger Logger) *Redis {
	return &Redis{
		client:       client,
		prefix:       prefix,
		ttl:          ttl,
		pollInterval: 20 * time.Millisecond,
		logger:       logger,
	}
}

func (r *Redis) Acquire(ctx context.Context, key string, timeout time.Duration) (ReleaseFunc, error) {
	fullKey := r.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(timeout)

	for {
		ok, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("keylock: redis setnx %s: %w", fullKey, err)
		}
		if ok {
			break
		}

		if time.Now().Add(r.pollInterval).After(deadline) {
			return nil, ErrTimeout
		}

		select {
		case <-time.After(r.pollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Освобождаем даже если контекст запроса уже отменен
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			if err := releaseScript.Run(releaseCtx, r.client, []string{fullKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				r.logger.Warn("keylock: failed to release %s: %v", fullKey, err)
			}
		})
	}, nil
}
