package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("timed out waiting for session lock")

// Only the holder of the token may release the lock.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker serializes cart read-modify-write cycles per session across API replicas.
type Locker struct {
	Redis *redis.Client
	TTL   time.Duration // lease; a crashed holder frees the lock after this
	Wait  time.Duration // how long Lock polls before giving up
}

func (l *Locker) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := fmt.Sprintf(KeyCartLock, sessionID)
	token := uuid.NewString()

	deadline := time.Now().Add(l.Wait)
	backoff := 10 * time.Millisecond
	for {
		ok, err := l.Redis.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if ok {
			return func() {
				// release with a fresh context so a cancelled request still unlocks
				rctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = unlockScript.Run(rctx, l.Redis, []string{key}, token).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 200*time.Millisecond {
			backoff *= 2
		}
	}
}
