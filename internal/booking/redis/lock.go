package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultLockTTL = 10 * time.Second

// Redis serializes booking creation per facility and date: whoever
// holds slot_lock:<facility>:<date> owns the conflict-check-and-insert
// critical section for that scope. The TTL bounds how long a crashed
// creator can block the slot.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Redis{
		Client: client,
		TTL:    ttl,
	}
}

func lockKey(facilityID string, date time.Time) string {
	return fmt.Sprintf("slot_lock:%s:%s", facilityID, date.UTC().Format("2006-01-02"))
}

// LockSlot acquires the critical section for one facility/date. The
// holder value lets only the acquirer release it.
func (r *Redis) LockSlot(facilityID string, date time.Time, holder string) (bool, error) {
	ok, err := r.Client.SetNX(context.Background(), lockKey(facilityID, date), holder, r.TTL).Result()
	return ok, err
}

// UnlockSlot releases the critical section if, and only if, the caller
// still holds it. A lock that expired and was re-acquired by someone
// else is left alone.
func (r *Redis) UnlockSlot(facilityID string, date time.Time, holder string) error {
	ctx := context.Background()
	key := lockKey(facilityID, date)

	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released or expired
	}
	if err != nil {
		return err
	}
	if val == holder {
		_, err := r.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}
