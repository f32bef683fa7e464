// Package ratelimit ограничивает частоту отправки формы по ключу клиента
// с фиксированным окном в Redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrLimited = errors.New("rate limit exceeded")

const keyPrefix = "portfolio:contact:"

// LimitError сообщает, когда можно повторить попытку
type LimitError struct {
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrLimited, e.RetryAfter)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrLimited
}

type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewLimiter(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow учитывает попытку и возвращает *LimitError, если лимит окна исчерпан
func (l *Limiter) Allow(ctx context.Context, key string) error {
	redisKey := keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return fmt.Errorf("failed to increment counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set counter ttl: %w", err)
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return &LimitError{RetryAfter: ttl}
	}
	return nil
}

// Noop используется, когда Redis не настроен
type Noop struct{}

func (Noop) Allow(ctx context.Context, key string) error { return nil }
