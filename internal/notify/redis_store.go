package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/pkg/clock"
)

// RedisStore keeps each user's notifications as a redis list of JSON records,
// newest first. LPUSH+LTRIM in one pipeline enforces the retention cap on
// every insert.
type RedisStore struct {
	client *redis.Client
	cap    int
	clock  clock.Clock
	prefix string
}

// NewRedisStore builds the production notification store.
func NewRedisStore(client *redis.Client, cap int, clk clock.Clock) *RedisStore {
	if cap <= 0 {
		cap = DefaultRetentionCap
	}
	return &RedisStore{
		client: client,
		cap:    cap,
		clock:  clk,
		prefix: "notif:",
	}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

func (s *RedisStore) Append(ctx context.Context, userID string, n *domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key(userID), payload)
	pipe.LTrim(ctx, s.key(userID), 0, int64(s.cap-1))
	_, err = pipe.Exec(ctx)
	return err
}

// load returns the raw list newest-first together with each entry's list
// index, skipping expired and undecodable records.
func (s *RedisStore) load(ctx context.Context, userID string) ([]domain.Notification, []int64, error) {
	raw, err := s.client.LRange(ctx, s.key(userID), 0, -1).Result()
	if err != nil {
		return nil, nil, err
	}
	now := s.clock.Now()
	items := make([]domain.Notification, 0, len(raw))
	indexes := make([]int64, 0, len(raw))
	for i, entry := range raw {
		var n domain.Notification
		if err := json.Unmarshal([]byte(entry), &n); err != nil {
			continue
		}
		if n.Expired(now) {
			continue
		}
		items = append(items, n)
		indexes = append(indexes, int64(i))
	}
	return items, indexes, nil
}

func (s *RedisStore) List(ctx context.Context, userID string, opts ListOptions) ([]domain.Notification, error) {
	items, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if opts.UnreadOnly {
		unread := make([]domain.Notification, 0, len(items))
		for _, n := range items {
			if !n.Read {
				unread = append(unread, n)
			}
		}
		items = unread
	}
	return paginate(items, opts), nil
}

func (s *RedisStore) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	items, indexes, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	for i, n := range items {
		if n.ID != notificationID {
			continue
		}
		if n.Read {
			return false, nil
		}
		now := s.clock.Now()
		n.Read = true
		n.ReadAt = &now
		return true, s.writeAt(ctx, userID, indexes[i], &n)
	}
	return false, nil
}

func (s *RedisStore) MarkAllRead(ctx context.Context, userID string) (int, error) {
	items, indexes, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	now := s.clock.Now()
	count := 0
	for i, n := range items {
		if n.Read {
			continue
		}
		n.Read = true
		n.ReadAt = &now
		if err := s.writeAt(ctx, userID, indexes[i], &n); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *RedisStore) Stats(ctx context.Context, userID string) (Stats, error) {
	items, _, err := s.load(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{ByCategory: map[string]int{}}
	for _, n := range items {
		stats.Total++
		if !n.Read {
			stats.Unread++
		}
		stats.ByCategory[n.Category]++
	}
	return stats, nil
}

func (s *RedisStore) writeAt(ctx context.Context, userID string, index int64, n *domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.client.LSet(ctx, s.key(userID), index, payload).Err()
}
