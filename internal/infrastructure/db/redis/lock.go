package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

const defaultLockTTL = 10 * time.Second

// unlockScript deletes the key only while it still holds our token, so a lock
// that expired and was taken by someone else is left alone.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TransitionLock serialises transitions on one server request.
// Key format: lock:server-request:<id>
type TransitionLock struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewTransitionLock creates a TransitionLock wrapping the given Redis client.
func NewTransitionLock(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *TransitionLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &TransitionLock{client: client, ttl: ttl, logger: logger}
}

// Acquire takes the lock for requestID. The returned func releases it.
func (l *TransitionLock) Acquire(ctx context.Context, requestID string) (func(), error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	key := l.key(requestID)
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrTransitionInProgress
	}

	return func() {
		// Released with a fresh context: the request context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		if err := unlockScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn().Err(err).Str("request_id", requestID).Msg("transition lock release failed, waiting for ttl")
		}
	}, nil
}

func (l *TransitionLock) key(requestID string) string {
	return fmt.Sprintf("lock:server-request:%s", requestID)
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
