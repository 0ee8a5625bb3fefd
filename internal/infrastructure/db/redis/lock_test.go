package redis

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

func newTestLock(t *testing.T, mr *miniredis.Miniredis, ttl time.Duration, logger zerolog.Logger) *TransitionLock {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return NewTransitionLock(client, ttl, logger)
}

func TestTransitionLock_KeyAndTTL(t *testing.T) {
	l := NewTransitionLock(nil, 0, zerolog.Nop())
	if l.ttl != defaultLockTTL {
		t.Fatalf("expected default ttl, got %s", l.ttl)
	}
	if got := l.key("abc"); got != "lock:server-request:abc" {
		t.Fatalf("unexpected key %q", got)
	}

	l = NewTransitionLock(nil, 3*time.Second, zerolog.Nop())
	if l.ttl != 3*time.Second {
		t.Fatalf("ttl not applied: %s", l.ttl)
	}
}

func TestNewToken_Unique(t *testing.T) {
	a, err := newToken()
	if err != nil {
		t.Fatalf("newToken: %v", err)
	}
	b, _ := newToken()
	if a == b || len(a) != 32 {
		t.Fatalf("unexpected tokens %q %q", a, b)
	}
}

func TestTransitionLock_AcquireContendRelease(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	l := newTestLock(t, mr, 5*time.Second, zerolog.Nop())
	key := l.key("req-1")

	release, err := l.Acquire(ctx, "req-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !mr.Exists(key) || mr.TTL(key) != 5*time.Second {
		t.Fatalf("expected key with ttl, exists=%v ttl=%s", mr.Exists(key), mr.TTL(key))
	}

	if _, err := l.Acquire(ctx, "req-1"); !errors.Is(err, domain.ErrTransitionInProgress) {
		t.Fatalf("expected ErrTransitionInProgress, got %v", err)
	}
	if !errors.Is(domain.ErrTransitionInProgress, domain.ErrConflict) {
		t.Fatalf("a held lock must map to a conflict")
	}

	other, err := l.Acquire(ctx, "req-2")
	if err != nil {
		t.Fatalf("locks on different requests must not contend: %v", err)
	}
	defer other()

	release()
	if mr.Exists(key) {
		t.Fatalf("release must delete the key")
	}
	again, err := l.Acquire(ctx, "req-1")
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	again()
}

func TestTransitionLock_StaleReleaseKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	l := newTestLock(t, mr, time.Second, zerolog.Nop())
	key := l.key("req-1")

	staleRelease, err := l.Acquire(ctx, "req-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	mr.FastForward(2 * time.Second)
	if mr.Exists(key) {
		t.Fatalf("lock should have expired")
	}

	release, err := l.Acquire(ctx, "req-1")
	if err != nil {
		t.Fatalf("second holder Acquire: %v", err)
	}
	holder, _ := mr.Get(key)

	staleRelease()
	if got, _ := mr.Get(key); got != holder {
		t.Fatalf("stale release removed another holder's lock (value %q, want %q)", got, holder)
	}

	release()
	if mr.Exists(key) {
		t.Fatalf("holder release must delete the key")
	}
}

func TestTransitionLock_ReleaseFailureIsLogged(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	var buf bytes.Buffer
	l := newTestLock(t, mr, time.Second, zerolog.New(&buf))

	release, err := l.Acquire(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	mr.Close()
	release()

	if out := buf.String(); !strings.Contains(out, "transition lock release failed") || !strings.Contains(out, "req-1") {
		t.Fatalf("expected release failure to be logged, got %q", out)
	}
}
