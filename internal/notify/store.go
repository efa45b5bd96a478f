// Package notify holds the per-user notification store and the dispatcher
// that turns domain events into store writes plus optional email delivery.
package notify

import (
	"context"

	"github.com/spec-kit/feedback-service/internal/domain"
)

// DefaultRetentionCap bounds the per-user notification list; the oldest
// entries beyond the cap are pruned on insert.
const DefaultRetentionCap = 50

// ListOptions filter and paginate a user's notification list. Expired
// entries are always excluded before these apply.
type ListOptions struct {
	Limit      int
	Offset     int
	UnreadOnly bool
}

// Stats summarizes a user's active notifications.
type Stats struct {
	Total      int            `json:"total"`
	Unread     int            `json:"unread"`
	ByCategory map[string]int `json:"by_category"`
}

// Store is the per-user notification list. Operations are total: a missing
// user or notification yields an empty/false/zero result, never an error.
// Errors indicate the backing store itself is unavailable.
type Store interface {
	Append(ctx context.Context, userID string, n *domain.Notification) error
	List(ctx context.Context, userID string, opts ListOptions) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Stats(ctx context.Context, userID string) (Stats, error)
}

func paginate(items []domain.Notification, opts ListOptions) []domain.Notification {
	if opts.Offset > 0 {
		if opts.Offset >= len(items) {
			return []domain.Notification{}
		}
		items = items[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}
