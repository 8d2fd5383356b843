package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"github.com/sirupsen/logrus"
)

const lockRetryInterval = 100 * time.Millisecond

// Locker serializes writers on a key. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// RedisLocker locks across instances. When redis itself fails the write goes
// ahead unlocked; the MySQL advisory lock still serializes it.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	logger *logrus.Logger
}

func NewRedisLocker(client *redislock.Client, ttl time.Duration, wait time.Duration, logger *logrus.Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, wait: wait, logger: logger}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	retries := int(l.wait / lockRetryInterval)
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryInterval), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, utils.ErrConflict
	}
	if err != nil {
		l.logger.WithFields(logrus.Fields{
			"field": "RedisLocker",
			"key":   key,
		}).Warn("error obtaining redis lock; proceeding without redis lock: " + err.Error())
		return func() {}, nil
	}
	return func() {
		if releaseErr := lock.Release(context.Background()); releaseErr != nil && !errors.Is(releaseErr, redislock.ErrLockNotHeld) {
			l.logger.WithFields(logrus.Fields{
				"field": "RedisLocker",
				"key":   key,
			}).Warn("failed to release redis lock: " + releaseErr.Error())
		}
	}, nil
}

// LocalLocker serializes per key inside one process. Used when redis is disabled.
type LocalLocker struct {
	wait  time.Duration
	mu    sync.Mutex
	byKey map[string]chan struct{}
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{wait: wait, byKey: map[string]chan struct{}{}}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot := l.byKey[key]
	if slot == nil {
		slot = make(chan struct{}, 1)
		l.byKey[key] = slot
	}
	l.mu.Unlock()

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}
	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, utils.ErrConflict
	}
}
