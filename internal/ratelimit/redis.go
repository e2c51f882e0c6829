package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BackendRedis labels decisions made by the shared-store limiter.
const BackendRedis = "redis"

// RedisLimiter counts actions in fixed windows shared across instances. The
// increment and expiry run in a single pipeline round-trip.
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter creates a limiter on the given client.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (r *RedisLimiter) Check(ctx context.Context, rule Rule, key string) (Decision, error) {
	windowSecs := int64(rule.Window / time.Second)
	if windowSecs < 1 {
		windowSecs = 1
	}
	now := time.Now().Unix()
	bucket := now / windowSecs

	redisKey := fmt.Sprintf("ratelimit/%s/%s/%d", rule.Action, key, bucket)

	multi := r.client.Pipeline()
	incr := multi.Incr(ctx, redisKey)
	multi.Expire(ctx, redisKey, rule.Window+time.Second)
	if _, err := multi.Exec(ctx); err != nil {
		return Decision{Backend: BackendRedis}, err
	}

	if incr.Val() > rule.Limit {
		retryAfter := time.Duration((bucket+1)*windowSecs-now) * time.Second
		if retryAfter <= 0 {
			retryAfter = time.Second
		}
		return Decision{Allowed: false, RetryAfter: retryAfter, Backend: BackendRedis}, nil
	}
	return Decision{Allowed: true, Backend: BackendRedis}, nil
}
