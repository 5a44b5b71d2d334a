// Package lock serializes mutations of a single payment plan.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sjperalta/antecipa-api/pkg/logger"
)

// ErrLockTimeout is returned when the plan lock could not be acquired before
// the context ended
var ErrLockTimeout = errors.New("plan lock not acquired")

// PlanLocker grants exclusive access to one plan at a time
type PlanLocker interface {
	Lock(ctx context.Context, planID uint) (func(), error)
}

// LocalLocker is an in-process keyed mutex. Used when no Redis is configured
// and in tests.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[uint]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker creates an in-process locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[uint]*entry)}
}

// Lock blocks until the plan is free or ctx is done
func (l *LocalLocker) Lock(ctx context.Context, planID uint) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[planID]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[planID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(planID, e)
		return nil, fmt.Errorf("%w: plano %d: %v", ErrLockTimeout, planID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(planID, e)
		})
	}, nil
}

func (l *LocalLocker) release(planID uint, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, planID)
	}
}

// unlockScript deletes the key only if it still holds our token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares plan locks across API replicas
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	prefix string
}

// NewRedisLocker creates a Redis-backed locker. ttl bounds how long a crashed
// holder can keep a plan locked.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		retry:  50 * time.Millisecond,
		prefix: "antecipa:plan-lock:",
	}
}

func (l *RedisLocker) key(planID uint) string {
	return fmt.Sprintf("%s%d", l.prefix, planID)
}

// Lock polls SET NX until it succeeds or ctx is done
func (l *RedisLocker) Lock(ctx context.Context, planID uint) (func(), error) {
	key := l.key(planID)
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("failed to acquire plan lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: plano %d: %v", ErrLockTimeout, planID, ctx.Err())
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be cancelled
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := unlockScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
				logger.Warn("Failed to release plan lock", "plan_id", planID, "error", err)
			}
		})
	}, nil
}
