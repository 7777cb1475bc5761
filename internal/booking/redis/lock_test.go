package redis_test

import (
	"testing"
	"time"

	rediswrap "ms-facility-booking/internal/booking/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLock(t *testing.T) (*rediswrap.Redis, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return rediswrap.NewRedis(client, 10*time.Second), mr
}

func TestLockSlotHonorsConfiguredTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	lock := rediswrap.NewRedis(client, 2*time.Second)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	ok, err := lock.LockSlot("turf-1", date, "holder-a")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(1 * time.Second)
	ok, err = lock.LockSlot("turf-1", date, "holder-b")
	require.NoError(t, err)
	assert.False(t, ok, "lock still held inside the configured TTL")

	mr.FastForward(2 * time.Second)
	ok, err = lock.LockSlot("turf-1", date, "holder-b")
	require.NoError(t, err)
	assert.True(t, ok, "lock released once the configured TTL passes")
}

func TestNewRedisDefaultsTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	lock := rediswrap.NewRedis(client, 0)

	assert.Equal(t, 10*time.Second, lock.TTL)
}

func TestLockSlotMutualExclusion(t *testing.T) {
	lock, _ := setupLock(t)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	ok, err := lock.LockSlot("turf-1", date, "holder-a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.LockSlot("turf-1", date, "holder-b")
	require.NoError(t, err)
	assert.False(t, ok, "second acquirer is refused while the lock is held")

	require.NoError(t, lock.UnlockSlot("turf-1", date, "holder-a"))

	ok, err = lock.LockSlot("turf-1", date, "holder-b")
	require.NoError(t, err)
	assert.True(t, ok, "released lock is available again")
}

func TestLockSlotScopesAreIndependent(t *testing.T) {
	lock, _ := setupLock(t)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	ok, err := lock.LockSlot("turf-1", date, "holder-a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = lock.LockSlot("court-1", date, "holder-b")
	require.NoError(t, err)
	assert.True(t, ok, "another facility is a different critical section")

	ok, err = lock.LockSlot("turf-1", date.AddDate(0, 0, 1), "holder-c")
	require.NoError(t, err)
	assert.True(t, ok, "another date is a different critical section")
}

func TestUnlockSlotOnlyByHolder(t *testing.T) {
	lock, _ := setupLock(t)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	ok, err := lock.LockSlot("turf-1", date, "holder-a")
	require.NoError(t, err)
	require.True(t, ok)

	// A non-holder unlock is a silent no-op.
	require.NoError(t, lock.UnlockSlot("turf-1", date, "holder-b"))

	ok, err = lock.LockSlot("turf-1", date, "holder-b")
	require.NoError(t, err)
	assert.False(t, ok, "lock survives a foreign unlock attempt")
}

func TestLockSlotExpires(t *testing.T) {
	lock, mr := setupLock(t)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	ok, err := lock.LockSlot("turf-1", date, "holder-a")
	require.NoError(t, err)
	require.True(t, ok)

	// A crashed creator never unlocks; the TTL frees the slot.
	mr.FastForward(11 * time.Second)

	ok, err = lock.LockSlot("turf-1", date, "holder-b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUnlockExpiredLockIsNoError(t *testing.T) {
	lock, mr := setupLock(t)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	ok, err := lock.LockSlot("turf-1", date, "holder-a")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(11 * time.Second)

	assert.NoError(t, lock.UnlockSlot("turf-1", date, "holder-a"))
}
