package runlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalRejectsSecondHolder(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	release, ok, err := l.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	release()

	again, ok, err := l.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	again()
}

func newRedisLock(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lock, err := NewRedis(client, "subcommerce:renewal:lock", ttl, zap.NewNop())
	require.NoError(t, err)
	return lock, mr
}

func TestRedisLeaseIsExclusive(t *testing.T) {
	lock, mr := newRedisLock(t, time.Minute)
	ctx := context.Background()

	release, ok, err := lock.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("subcommerce:renewal:lock"))

	_, ok, err = lock.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	assert.False(t, mr.Exists("subcommerce:renewal:lock"))
}

func TestRedisReleaseKeepsForeignLease(t *testing.T) {
	lock, mr := newRedisLock(t, time.Second)
	ctx := context.Background()

	release, ok, err := lock.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("subcommerce:renewal:lock", "someone-else"))

	release()
	got, err := mr.Get("subcommerce:renewal:lock")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLeaseOutlivesTTLWhileHeld(t *testing.T) {
	ttl := 300 * time.Millisecond
	lock, mr := newRedisLock(t, ttl)
	ctx := context.Background()

	release, ok, err := lock.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(ttl - 50*time.Millisecond)
	require.Eventually(t, func() bool {
		return mr.TTL("subcommerce:renewal:lock") > ttl/2
	}, 2*time.Second, 20*time.Millisecond)

	mr.FastForward(ttl - 50*time.Millisecond)
	assert.True(t, mr.Exists("subcommerce:renewal:lock"))

	_, ok, err = lock.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	assert.False(t, mr.Exists("subcommerce:renewal:lock"))
}

func TestRedisStopsExtendingLostLease(t *testing.T) {
	ttl := 300 * time.Millisecond
	lock, mr := newRedisLock(t, ttl)

	release, ok, err := lock.TryAcquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, mr.Set("subcommerce:renewal:lock", "someone-else"))
	mr.SetTTL("subcommerce:renewal:lock", time.Hour)
	time.Sleep(2 * lock.refresh)

	assert.Equal(t, time.Hour, mr.TTL("subcommerce:renewal:lock"))
	release()
	got, err := mr.Get("subcommerce:renewal:lock")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisUnavailable(t *testing.T) {
	lock, mr := newRedisLock(t, time.Minute)
	mr.Close()

	_, ok, err := lock.TryAcquire(context.Background())
	require.Error(t, err)
	assert.False(t, ok)
}

func TestChainUnwindsOnPartialAcquire(t *testing.T) {
	first := NewLocal()
	second := NewLocal()
	ctx := context.Background()

	held, ok, err := second.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = Chain{first, second}.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// first must have been released by the failed chain
	r, ok, err := first.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	r()
	held()

	release, ok, err := Chain{first, second}.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	release()
}
