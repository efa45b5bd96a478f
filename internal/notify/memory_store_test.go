package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/feedback-service/pkg/clock"
)

func TestMemoryStoreRetentionCap(t *testing.T) {
	clk := &clock.Fixed{Time: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(3, clk)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, "user-1", notificationFixture(fmt.Sprintf("n-%d", i), clk.Now())))
	}

	items, err := store.List(ctx, "user-1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "n-4", items[0].ID)
	assert.Equal(t, "n-2", items[2].ID)
}

func TestMemoryStoreMarkReadAndStats(t *testing.T) {
	clk := &clock.Fixed{Time: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(0, clk)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "user-1", notificationFixture("n-1", clk.Now())))
	require.NoError(t, store.Append(ctx, "user-1", notificationFixture("n-2", clk.Now())))

	changed, err := store.MarkRead(ctx, "user-1", "n-1")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = store.MarkRead(ctx, "user-1", "n-1")
	require.NoError(t, err)
	assert.False(t, changed)

	stats, err := store.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Unread)

	count, err := store.MarkAllRead(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStoreExpiry(t *testing.T) {
	clk := &clock.Fixed{Time: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(0, clk)
	ctx := context.Background()

	expiry := clk.Now().Add(time.Minute)
	n := notificationFixture("n-1", clk.Now())
	n.ExpiresAt = &expiry
	require.NoError(t, store.Append(ctx, "user-1", n))

	clk.Advance(2 * time.Minute)

	items, err := store.List(ctx, "user-1", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, items)
}
