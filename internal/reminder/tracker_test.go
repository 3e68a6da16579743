package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTracker(t *testing.T, ttl time.Duration) (*RedisTracker, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTracker(client, ttl), server
}

func TestRedisTrackerFirstWinOnly(t *testing.T) {
	tracker, _ := newRedisTracker(t, time.Hour)
	ctx := context.Background()

	first, err := tracker.MarkSent(ctx, "booking-1", TierDayBefore)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := tracker.MarkSent(ctx, "booking-1", TierDayBefore)
	require.NoError(t, err)
	assert.False(t, again)
}

func TestRedisTrackerTiersAreIndependent(t *testing.T) {
	tracker, _ := newRedisTracker(t, time.Hour)
	ctx := context.Background()

	first, err := tracker.MarkSent(ctx, "booking-1", TierDayBefore)
	require.NoError(t, err)
	assert.True(t, first)

	hourTier, err := tracker.MarkSent(ctx, "booking-1", TierHourBefore)
	require.NoError(t, err)
	assert.True(t, hourTier)

	other, err := tracker.MarkSent(ctx, "booking-2", TierDayBefore)
	require.NoError(t, err)
	assert.True(t, other)
}

func TestRedisTrackerKeyExpires(t *testing.T) {
	tracker, server := newRedisTracker(t, time.Minute)
	ctx := context.Background()

	first, err := tracker.MarkSent(ctx, "booking-1", TierHourBefore)
	require.NoError(t, err)
	require.True(t, first)
	require.True(t, server.Exists("reminder:sent:booking-1:1h"))

	server.FastForward(2 * time.Minute)

	again, err := tracker.MarkSent(ctx, "booking-1", TierHourBefore)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestMemoryTrackerFirstWinOnly(t *testing.T) {
	tracker := NewMemoryTracker()
	ctx := context.Background()

	first, err := tracker.MarkSent(ctx, "booking-1", TierDayBefore)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := tracker.MarkSent(ctx, "booking-1", TierDayBefore)
	require.NoError(t, err)
	assert.False(t, again)

	hourTier, err := tracker.MarkSent(ctx, "booking-1", TierHourBefore)
	require.NoError(t, err)
	assert.True(t, hourTier)
}

func TestTierDurations(t *testing.T) {
	assert.Equal(t, 24*time.Hour, TierDayBefore.Duration())
	assert.Equal(t, time.Hour, TierHourBefore.Duration())
	assert.Equal(t, []Tier{TierDayBefore, TierHourBefore}, Tiers())
}
