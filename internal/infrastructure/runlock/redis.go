// Package runlock provides the non-blocking advisory lock that lets a worker
// skip a reconciliation run when another is already in flight. The lock has a
// TTL so a crashed holder cannot wedge future runs.
package runlock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leaguebase/leaguebase/internal/application/ports"
)

const keyPrefix = "leaguebase:runlock:"

// RedisLock implements ports.RunLock with SET NX + TTL.
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLock creates a lock with the given TTL (defaults to 30m, which
// comfortably exceeds a full reconciliation pass).
func NewRedisLock(client *redis.Client, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisLock{client: client, ttl: ttl}
}

func (l *RedisLock) TryAcquire(ctx context.Context, name string) (bool, error) {
	return l.client.SetNX(ctx, keyPrefix+name, "1", l.ttl).Result()
}

func (l *RedisLock) Release(ctx context.Context, name string) error {
	return l.client.Del(ctx, keyPrefix+name).Err()
}

var _ ports.RunLock = (*RedisLock)(nil)

// NoopLock always grants the lock; used when Redis is not configured.
type NoopLock struct{}

func NewNoopLock() *NoopLock { return &NoopLock{} }

func (NoopLock) TryAcquire(ctx context.Context, name string) (bool, error) { return true, nil }

func (NoopLock) Release(ctx context.Context, name string) error { return nil }

var _ ports.RunLock = (*NoopLock)(nil)
