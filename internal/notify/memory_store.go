package notify

import (
	"context"
	"sync"

	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/pkg/clock"
)

// MemoryStore is the in-process Store backend, used in tests and in
// deployments that run without redis. The mutex serializes appends so the
// retention cap holds exactly.
type MemoryStore struct {
	mu    sync.Mutex
	cap   int
	clock clock.Clock
	lists map[string][]domain.Notification
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore(cap int, clk clock.Clock) *MemoryStore {
	if cap <= 0 {
		cap = DefaultRetentionCap
	}
	return &MemoryStore{
		cap:   cap,
		clock: clk,
		lists: make(map[string][]domain.Notification),
	}
}

func (s *MemoryStore) Append(ctx context.Context, userID string, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append([]domain.Notification{*n}, s.lists[userID]...)
	if len(list) > s.cap {
		list = list[:s.cap]
	}
	s.lists[userID] = list
	return nil
}

func (s *MemoryStore) active(userID string) []domain.Notification {
	now := s.clock.Now()
	items := make([]domain.Notification, 0, len(s.lists[userID]))
	for _, n := range s.lists[userID] {
		if n.Expired(now) {
			continue
		}
		items = append(items, n)
	}
	return items
}

func (s *MemoryStore) List(ctx context.Context, userID string, opts ListOptions) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.active(userID)
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

func (s *MemoryStore) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	list := s.lists[userID]
	for i := range list {
		if list[i].ID != notificationID || list[i].Expired(now) {
			continue
		}
		if list[i].Read {
			return false, nil
		}
		list[i].Read = true
		list[i].ReadAt = &now
		return true, nil
	}
	return false, nil
}

func (s *MemoryStore) MarkAllRead(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	list := s.lists[userID]
	count := 0
	for i := range list {
		if list[i].Read || list[i].Expired(now) {
			continue
		}
		list[i].Read = true
		list[i].ReadAt = &now
		count++
	}
	return count, nil
}

func (s *MemoryStore) Stats(ctx context.Context, userID string) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := Stats{ByCategory: map[string]int{}}
	for _, n := range s.active(userID) {
		stats.Total++
		if !n.Read {
			stats.Unread++
		}
		stats.ByCategory[n.Category]++
	}
	return stats, nil
}
