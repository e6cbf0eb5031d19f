package cron

import (
	"context"
	"time"

	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/redis"
)

// RedisLock is a best-effort distributed lock over SETNX. The TTL should
// exceed the cron interval so only one replica runs a job per window.
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLock(client *redis.Client, ttl time.Duration) (*RedisLock, error) {
	if client == nil {
		return nil, errors.New(errors.CodeInternal, "redis lock requires a client")
	}
	if ttl <= 0 {
		return nil, errors.New(errors.CodeInternal, "redis lock requires a positive ttl")
	}
	return &RedisLock{client: client, ttl: ttl}, nil
}

func (l *RedisLock) Acquire(ctx context.Context, name string) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.client.LockKey(name), time.Now().UTC().Format(time.RFC3339), l.ttl)
	if err != nil {
		return false, errors.Wrap(errors.CodeDependency, err, "acquire cron lock")
	}
	return acquired, nil
}
