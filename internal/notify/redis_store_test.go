package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/pkg/clock"
)

func newTestRedisStore(t *testing.T, cap int) (*RedisStore, *clock.Fixed) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	clk := &clock.Fixed{Time: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewRedisStore(client, cap, clk), clk
}

func notificationFixture(id string, created time.Time) *domain.Notification {
	return &domain.Notification{
		ID:        id,
		UserID:    "user-1",
		Title:     "New Feedback",
		Message:   "A client submitted feedback",
		Type:      domain.NotificationInfo,
		Category:  "feedback",
		CreatedAt: created,
	}
}

func TestRedisStoreAppendAndList(t *testing.T) {
	store, clk := newTestRedisStore(t, 50)
	ctx := context.Background()

	first := notificationFixture("n-1", clk.Now())
	clk.Advance(time.Minute)
	second := notificationFixture("n-2", clk.Now())

	require.NoError(t, store.Append(ctx, "user-1", first))
	require.NoError(t, store.Append(ctx, "user-1", second))

	items, err := store.List(ctx, "user-1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "n-2", items[0].ID)
	assert.Equal(t, "n-1", items[1].ID)
	assert.Equal(t, "New Feedback", items[0].Title)
	assert.Equal(t, domain.NotificationInfo, items[0].Type)
}

func TestRedisStoreListMissingUserIsEmpty(t *testing.T) {
	store, _ := newTestRedisStore(t, 50)

	items, err := store.List(context.Background(), "nobody", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRedisStoreRetentionCap(t *testing.T) {
	store, clk := newTestRedisStore(t, 50)
	ctx := context.Background()

	for i := 0; i < 51; i++ {
		n := notificationFixture(fmt.Sprintf("n-%d", i), clk.Now())
		require.NoError(t, store.Append(ctx, "user-1", n))
		clk.Advance(time.Second)
	}

	items, err := store.List(ctx, "user-1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 50)
	assert.Equal(t, "n-50", items[0].ID)
	assert.Equal(t, "n-1", items[len(items)-1].ID)
}

func TestRedisStoreExpiredFilteredOut(t *testing.T) {
	store, clk := newTestRedisStore(t, 50)
	ctx := context.Background()

	expiry := clk.Now().Add(time.Hour)
	expiring := notificationFixture("n-exp", clk.Now())
	expiring.ExpiresAt = &expiry
	durable := notificationFixture("n-durable", clk.Now())

	require.NoError(t, store.Append(ctx, "user-1", expiring))
	require.NoError(t, store.Append(ctx, "user-1", durable))

	items, err := store.List(ctx, "user-1", ListOptions{})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	clk.Advance(2 * time.Hour)

	items, err = store.List(ctx, "user-1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "n-durable", items[0].ID)

	stats, err := store.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
}

func TestRedisStoreMarkRead(t *testing.T) {
	store, clk := newTestRedisStore(t, 50)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "user-1", notificationFixture("n-1", clk.Now())))

	changed, err := store.MarkRead(ctx, "user-1", "n-1")
	require.NoError(t, err)
	assert.True(t, changed)

	// Second mark is a no-op, not an error.
	changed, err = store.MarkRead(ctx, "user-1", "n-1")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = store.MarkRead(ctx, "user-1", "does-not-exist")
	require.NoError(t, err)
	assert.False(t, changed)

	items, err := store.List(ctx, "user-1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Read)
	require.NotNil(t, items[0].ReadAt)
	assert.Equal(t, clk.Now(), items[0].ReadAt.UTC())
}

func TestRedisStoreMarkAllRead(t *testing.T) {
	store, clk := newTestRedisStore(t, 50)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, "user-1", notificationFixture(fmt.Sprintf("n-%d", i), clk.Now())))
	}
	_, err := store.MarkRead(ctx, "user-1", "n-1")
	require.NoError(t, err)

	count, err := store.MarkAllRead(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.MarkAllRead(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = store.MarkAllRead(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRedisStoreUnreadOnlyAndPagination(t *testing.T) {
	store, clk := newTestRedisStore(t, 50)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, "user-1", notificationFixture(fmt.Sprintf("n-%d", i), clk.Now())))
		clk.Advance(time.Second)
	}
	_, err := store.MarkRead(ctx, "user-1", "n-4")
	require.NoError(t, err)

	unread, err := store.List(ctx, "user-1", ListOptions{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 4)
	assert.Equal(t, "n-3", unread[0].ID)

	page, err := store.List(ctx, "user-1", ListOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "n-3", page[0].ID)
	assert.Equal(t, "n-2", page[1].ID)

	beyond, err := store.List(ctx, "user-1", ListOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestRedisStoreStats(t *testing.T) {
	store, clk := newTestRedisStore(t, 50)
	ctx := context.Background()

	feedback := notificationFixture("n-1", clk.Now())
	require.NoError(t, store.Append(ctx, "user-1", feedback))

	billing := notificationFixture("n-2", clk.Now())
	billing.Category = "billing"
	require.NoError(t, store.Append(ctx, "user-1", billing))

	_, err := store.MarkRead(ctx, "user-1", "n-1")
	require.NoError(t, err)

	stats, err := store.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Unread)
	assert.Equal(t, map[string]int{"feedback": 1, "billing": 1}, stats.ByCategory)

	empty, err := store.Stats(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 0, empty.Unread)
}
