package domain

import (
	"strings"
	"time"

	"github.com/spec-kit/feedback-service/pkg/util"
)

// ThreadStatus enumerates lifecycle states for feedback threads.
type ThreadStatus string

const (
	ThreadStatusOpen       ThreadStatus = "open"
	ThreadStatusInProgress ThreadStatus = "in_progress"
	ThreadStatusResolved   ThreadStatus = "resolved"
	ThreadStatusClosed     ThreadStatus = "closed"
)

// ThreadCategory enumerates feedback categories.
type ThreadCategory string

const (
	CategoryGeneral    ThreadCategory = "general"
	CategoryComplaint  ThreadCategory = "complaint"
	CategorySuggestion ThreadCategory = "suggestion"
	CategorySupport    ThreadCategory = "support"
)

// ThreadPriority enumerates urgency.
type ThreadPriority string

const (
	PriorityLow    ThreadPriority = "low"
	PriorityMedium ThreadPriority = "medium"
	PriorityHigh   ThreadPriority = "high"
)

// Thread is the aggregate for a feedback conversation between one client and
// staff collectively. ThreadID is the immutable business identifier messages
// reference; ID is the row surrogate.
type Thread struct {
	ID        string
	ThreadID  string
	ClientID  string
	Subject   string
	Category  ThreadCategory
	Priority  ThreadPriority
	Status    ThreadStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Valid reports whether the status is one of the permitted values.
func (s ThreadStatus) Valid() bool {
	switch s {
	case ThreadStatusOpen, ThreadStatusInProgress, ThreadStatusResolved, ThreadStatusClosed:
		return true
	}
	return false
}

func (c ThreadCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryComplaint, CategorySuggestion, CategorySupport:
		return true
	}
	return false
}

func (p ThreadPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// staffTransitions lists the status changes staff may perform.
var staffTransitions = map[ThreadStatus][]ThreadStatus{
	ThreadStatusOpen:       {ThreadStatusInProgress, ThreadStatusResolved, ThreadStatusClosed},
	ThreadStatusInProgress: {ThreadStatusResolved, ThreadStatusClosed, ThreadStatusOpen},
	ThreadStatusResolved:   {ThreadStatusClosed, ThreadStatusOpen},
	ThreadStatusClosed:     {ThreadStatusOpen},
}

// CanTransition reports whether the acting role may move a thread from
// current to next. Clients may only reopen a closed thread; staff follow
// the transition table.
func CanTransition(current, next ThreadStatus, actor Role) bool {
	if actor == RoleClient {
		return current == ThreadStatusClosed && next == ThreadStatusOpen
	}
	for _, candidate := range staffTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

const (
	subjectMinLen = 3
	subjectMaxLen = 255
	bodyMinLen    = 1
	bodyMaxLen    = 5000
)

// ValidateSubject enforces the [3,255] subject length bound.
func ValidateSubject(subject string) error {
	subject = strings.TrimSpace(subject)
	if len(subject) < subjectMinLen || len(subject) > subjectMaxLen {
		return util.NewValidationError("subject must be between 3 and 255 characters", map[string]any{
			"field": "subject",
		})
	}
	return nil
}

// ValidateBody enforces the [1,5000] message body bound.
func ValidateBody(body string) error {
	if len(body) < bodyMinLen || len(body) > bodyMaxLen {
		return util.NewValidationError("body must be between 1 and 5000 characters", map[string]any{
			"field": "body",
		})
	}
	return nil
}
