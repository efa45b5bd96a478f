package domain

import "time"

// Message is one post within a feedback thread. Messages are append-only:
// after creation only the read flag may change, and only false to true.
type Message struct {
	ID         string
	ThreadID   string
	SenderID   string
	SenderRole Role
	Body       string
	Read       bool
	ReadAt     *time.Time
	// Seq is a monotonic per-table sequence used to break creation-time ties
	// so concurrent appends within the same millisecond order deterministically.
	Seq       int64
	CreatedAt time.Time
}
