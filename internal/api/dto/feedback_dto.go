package dto

import (
	"time"

	"github.com/spec-kit/feedback-service/internal/domain"
)

// SubmitFeedbackRequest payload.
type SubmitFeedbackRequest struct {
	Subject  string                `json:"subject"`
	Body     string                `json:"body"`
	Category domain.ThreadCategory `json:"category"`
	Priority domain.ThreadPriority `json:"priority"`
}

// ReplyRequest payload.
type ReplyRequest struct {
	Body string `json:"body"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.ThreadStatus `json:"status"`
}

// ThreadSummary response.
type ThreadSummary struct {
	ThreadID  string                `json:"thread_id"`
	ClientID  string                `json:"client_id"`
	Subject   string                `json:"subject"`
	Category  domain.ThreadCategory `json:"category"`
	Priority  domain.ThreadPriority `json:"priority"`
	Status    domain.ThreadStatus   `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// ThreadDetailResponse provides the thread with its message history.
type ThreadDetailResponse struct {
	ThreadSummary
	Messages    []MessageResponse `json:"messages"`
	UnreadCount int               `json:"unread_count"`
}

// MessageResponse represents one thread message.
type MessageResponse struct {
	ID         string      `json:"id"`
	SenderID   string      `json:"sender_id"`
	SenderRole domain.Role `json:"sender_role"`
	Body       string      `json:"body"`
	Read       bool        `json:"read"`
	ReadAt     *time.Time  `json:"read_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// MarkReadResponse reports how many messages were marked.
type MarkReadResponse struct {
	Updated int `json:"updated"`
}

// NewThreadSummary maps a domain thread.
func NewThreadSummary(thread *domain.Thread) ThreadSummary {
	return ThreadSummary{
		ThreadID:  thread.ThreadID,
		ClientID:  thread.ClientID,
		Subject:   thread.Subject,
		Category:  thread.Category,
		Priority:  thread.Priority,
		Status:    thread.Status,
		CreatedAt: thread.CreatedAt,
		UpdatedAt: thread.UpdatedAt,
	}
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(msg *domain.Message) MessageResponse {
	return MessageResponse{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		SenderRole: msg.SenderRole,
		Body:       msg.Body,
		Read:       msg.Read,
		ReadAt:     msg.ReadAt,
		CreatedAt:  msg.CreatedAt,
	}
}
