package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tier labels a reminder lookahead window.
type Tier string

const (
	TierDayBefore  Tier = "24h"
	TierHourBefore Tier = "1h"
)

// Duration returns the lookahead window for the tier.
func (t Tier) Duration() time.Duration {
	switch t {
	case TierHourBefore:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

// Tiers lists the configured reminder tiers, widest first.
func Tiers() []Tier {
	return []Tier{TierDayBefore, TierHourBefore}
}

// Tracker records which (booking, tier) reminders were already emitted. The
// scheduler runs periodically, so MarkSent must be the only gate between a
// due booking and a duplicate reminder.
type Tracker interface {
	// MarkSent records the pair and reports whether this call was the first
	// to do so. Only a true result permits sending.
	MarkSent(ctx context.Context, bookingID string, tier Tier) (bool, error)
}

// RedisTracker persists sent markers as SET NX keys with a TTL comfortably
// past the shift start.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTracker constructs the tracker.
func NewRedisTracker(client *redis.Client, ttl time.Duration) *RedisTracker {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisTracker{client: client, ttl: ttl}
}

func (t *RedisTracker) MarkSent(ctx context.Context, bookingID string, tier Tier) (bool, error) {
	key := sentKey(bookingID, tier)
	return t.client.SetNX(ctx, key, 1, t.ttl).Result()
}

func sentKey(bookingID string, tier Tier) string {
	return fmt.Sprintf("reminder:sent:%s:%s", bookingID, tier)
}

// MemoryTracker keeps sent markers in process memory. Suitable for tests and
// single-instance development runs without Redis.
type MemoryTracker struct {
	mu   sync.Mutex
	sent map[string]struct{}
}

// NewMemoryTracker constructs the tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{sent: make(map[string]struct{})}
}

func (t *MemoryTracker) MarkSent(_ context.Context, bookingID string, tier Tier) (bool, error) {
	key := sentKey(bookingID, tier)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.sent[key]; exists {
		return false, nil
	}
	t.sent[key] = struct{}{}
	return true, nil
}
