package repository

import (
	"context"
	"fmt"
	"time"

	redisapp "portfolio/internal/storage/redis"
)

// RedisRateLimitRepo is a fixed window counter. Every hit sends INCR and
// EXPIRE NX in one MULTI/EXEC, so a key left without a TTL gets one on the
// next hit instead of blocking forever.
type RedisRateLimitRepo struct {
	Client *redisapp.Client
}

func NewRedisRateLimitRepo(client *redisapp.Client) *RedisRateLimitRepo {
	return &RedisRateLimitRepo{Client: client}
}

func (r *RedisRateLimitRepo) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	const op = "repository.ratelimit_repository.Hit"

	k := rateLimitKey(key)

	pipe := r.Client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return incr.Val(), nil
}

func rateLimitKey(key string) string {
	return "rl:" + key
}
