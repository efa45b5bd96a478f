package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/feedback-service/internal/directory"
	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/notify"
	"github.com/spec-kit/feedback-service/internal/repository"
	"github.com/spec-kit/feedback-service/pkg/clock"
	"github.com/spec-kit/feedback-service/pkg/ids"
	"github.com/spec-kit/feedback-service/pkg/util"
)

// Actor is the acting principal, reduced to the closed core role.
type Actor struct {
	UserID string
	Role   domain.Role
}

// Notifier dispatches one notification event.
type Notifier interface {
	Notify(ctx context.Context, event notify.Event) (*domain.Notification, error)
}

// TxRunner executes fn inside a single storage transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// FeedbackService orchestrates threads, messages and notifications. It is
// the only entry point callers use.
type FeedbackService struct {
	threads   repository.ThreadRepository
	messages  repository.MessageRepository
	notifier  Notifier
	directory directory.Directory
	tx        TxRunner
	ids       ids.Generator
	clock     clock.Clock
	logger    *zap.Logger
}

// FeedbackDependencies bundles collaborators for the service.
type FeedbackDependencies struct {
	ThreadRepo  repository.ThreadRepository
	MessageRepo repository.MessageRepository
	Notifier    Notifier
	Directory   directory.Directory
	Tx          TxRunner
	IDs         ids.Generator
	Clock       clock.Clock
	Logger      *zap.Logger
}

// NewFeedbackService constructs the service.
func NewFeedbackService(deps FeedbackDependencies) *FeedbackService {
	return &FeedbackService{
		threads:   deps.ThreadRepo,
		messages:  deps.MessageRepo,
		notifier:  deps.Notifier,
		directory: deps.Directory,
		tx:        deps.Tx,
		ids:       deps.IDs,
		clock:     deps.Clock,
		logger:    deps.Logger,
	}
}

// SubmitInput describes a client's feedback submission.
type SubmitInput struct {
	Subject  string
	Body     string
	Category domain.ThreadCategory
	Priority domain.ThreadPriority
}

// ThreadListFilter describes listing parameters for either role.
type ThreadListFilter struct {
	Statuses   []domain.ThreadStatus
	Categories []domain.ThreadCategory
	Priorities []domain.ThreadPriority
	Search     *string
	Limit      int
	Offset     int
}

// SubmitFeedback opens a new thread with its initial client message, then
// notifies all staff.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, clientID string, input SubmitInput) (*domain.Thread, *domain.Message, error) {
	if err := domain.ValidateSubject(input.Subject); err != nil {
		return nil, nil, err
	}
	if err := domain.ValidateBody(input.Body); err != nil {
		return nil, nil, err
	}
	category := input.Category
	if category == "" {
		category = domain.CategoryGeneral
	}
	if !category.Valid() {
		return nil, nil, util.NewValidationError("invalid category", map[string]any{"field": "category"})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, nil, util.NewValidationError("invalid priority", map[string]any{"field": "priority"})
	}

	thread := &domain.Thread{
		ThreadID: s.ids.NewThreadID(),
		ClientID: clientID,
		Subject:  strings.TrimSpace(input.Subject),
		Category: category,
		Priority: priority,
		Status:   domain.ThreadStatusOpen,
	}
	msg := &domain.Message{
		ThreadID:   thread.ThreadID,
		SenderID:   clientID,
		SenderRole: domain.RoleClient,
		Body:       input.Body,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.threads.Create(ctx, thread); err != nil {
			return err
		}
		return s.messages.Append(ctx, msg)
	})
	if err != nil {
		return nil, nil, util.MapError(err)
	}

	s.notifyStaff(ctx, notify.TemplateFeedbackReceived, thread)
	return thread, msg, nil
}

// GetThread returns a thread with its full message history. Clients can only
// see threads they own; foreign threads read as not found.
func (s *FeedbackService) GetThread(ctx context.Context, actor Actor, threadID string) (*domain.Thread, []domain.Message, error) {
	thread, err := s.visibleThread(ctx, actor, threadID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.messages.ListByThread(ctx, thread.ThreadID)
	if err != nil {
		return nil, nil, util.MapError(err)
	}
	return thread, msgs, nil
}

// ListThreads returns threads visible to the actor, most recently updated
// first. Clients are always scoped to their own threads.
func (s *FeedbackService) ListThreads(ctx context.Context, actor Actor, filter ThreadListFilter) ([]domain.Thread, error) {
	repoFilter := repository.ThreadFilter{
		Statuses:   filter.Statuses,
		Categories: filter.Categories,
		Priorities: filter.Priorities,
		Search:     filter.Search,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if actor.Role == domain.RoleClient {
		repoFilter.ClientID = &actor.UserID
	}
	threads, err := s.threads.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, util.MapError(err)
	}
	return threads, nil
}

// Reply appends a message to a thread. Replies to a closed thread are
// rejected for every role; the client must reopen first. A reply on a
// non-open thread flips it back to open.
func (s *FeedbackService) Reply(ctx context.Context, actor Actor, threadID, body string) (*domain.Message, error) {
	if err := domain.ValidateBody(body); err != nil {
		return nil, err
	}
	thread, err := s.visibleThread(ctx, actor, threadID)
	if err != nil {
		return nil, err
	}
	if thread.Status == domain.ThreadStatusClosed {
		return nil, util.NewThreadClosed(thread.ThreadID)
	}

	msg := &domain.Message{
		ThreadID:   thread.ThreadID,
		SenderID:   actor.UserID,
		SenderRole: actor.Role,
		Body:       body,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.messages.Append(ctx, msg); err != nil {
			return err
		}
		if thread.Status != domain.ThreadStatusOpen {
			return s.threads.UpdateStatus(ctx, thread.ThreadID, domain.ThreadStatusOpen)
		}
		return s.threads.Touch(ctx, thread.ThreadID)
	})
	if err != nil {
		return nil, util.MapError(err)
	}
	if thread.Status != domain.ThreadStatusOpen {
		thread.Status = domain.ThreadStatusOpen
	}

	if actor.Role == domain.RoleClient {
		s.notifyStaff(ctx, notify.TemplateFeedbackReceived, thread)
	} else {
		s.notifyClient(ctx, notify.TemplateFeedbackResponse, thread, nil)
	}
	return msg, nil
}

// MarkThreadRead marks every message from the counterpart role as read and
// returns the number of messages updated.
func (s *FeedbackService) MarkThreadRead(ctx context.Context, actor Actor, threadID string) (int, error) {
	thread, err := s.visibleThread(ctx, actor, threadID)
	if err != nil {
		return 0, err
	}
	count, err := s.messages.MarkReadFrom(ctx, thread.ThreadID, actor.Role.Opposite(), s.clock.Now())
	if err != nil {
		return 0, util.MapError(err)
	}
	return count, nil
}

// UnreadCount reports how many counterpart messages the actor has not read.
func (s *FeedbackService) UnreadCount(ctx context.Context, actor Actor, threadID string) (int, error) {
	thread, err := s.visibleThread(ctx, actor, threadID)
	if err != nil {
		return 0, err
	}
	count, err := s.messages.UnreadCountFrom(ctx, thread.ThreadID, actor.Role.Opposite())
	if err != nil {
		return 0, util.MapError(err)
	}
	return count, nil
}

// SetStatus transitions a thread through the status state machine. Staff may
// perform any table transition; clients may only reopen a closed thread.
// A staff-initiated change notifies the thread's client.
func (s *FeedbackService) SetStatus(ctx context.Context, actor Actor, threadID string, newStatus domain.ThreadStatus) (*domain.Thread, error) {
	if !newStatus.Valid() {
		return nil, util.NewValidationError("invalid status", map[string]any{"field": "status"})
	}
	thread, err := s.visibleThread(ctx, actor, threadID)
	if err != nil {
		return nil, err
	}
	if thread.Status == newStatus {
		return thread, nil
	}
	if !domain.CanTransition(thread.Status, newStatus, actor.Role) {
		return nil, util.NewForbidden("status transition not permitted")
	}
	if err := s.threads.UpdateStatus(ctx, thread.ThreadID, newStatus); err != nil {
		return nil, util.MapError(err)
	}
	thread.Status = newStatus

	if actor.Role == domain.RoleStaff {
		s.notifyClient(ctx, notify.TemplateFeedbackStatus, thread, map[string]any{
			"Status": string(newStatus),
		})
	}
	return thread, nil
}

// Reopen moves a closed thread back to open on behalf of its client.
func (s *FeedbackService) Reopen(ctx context.Context, actor Actor, threadID string) (*domain.Thread, error) {
	return s.SetStatus(ctx, actor, threadID, domain.ThreadStatusOpen)
}

// visibleThread loads a thread, folding ownership into NotFound so clients
// cannot probe for other users' threads.
func (s *FeedbackService) visibleThread(ctx context.Context, actor Actor, threadID string) (*domain.Thread, error) {
	thread, err := s.threads.GetByThreadID(ctx, threadID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("thread", map[string]any{"thread_id": threadID})
		}
		return nil, util.MapError(err)
	}
	if actor.Role == domain.RoleClient && thread.ClientID != actor.UserID {
		return nil, util.NewNotFound("thread", map[string]any{"thread_id": threadID})
	}
	return thread, nil
}

// notifyStaff fans one event out to every staff user. Notifications are a
// best-effort side effect of an already-committed write; per-recipient
// failures are logged, not surfaced.
func (s *FeedbackService) notifyStaff(ctx context.Context, template notify.TemplateKey, thread *domain.Thread) {
	staff, err := s.directory.ListStaff(ctx)
	if err != nil {
		s.logger.Warn("staff fan-out skipped", zap.String("thread_id", thread.ThreadID), zap.Error(err))
		return
	}
	clientName := thread.ClientID
	if client, err := s.directory.GetUser(ctx, thread.ClientID); err == nil {
		clientName = client.Name
	}
	data := map[string]any{
		"ThreadID":   thread.ThreadID,
		"Subject":    thread.Subject,
		"ClientName": clientName,
	}
	for _, recipient := range staff {
		_, err := s.notifier.Notify(ctx, notify.Event{
			UserID:   recipient.ID,
			Template: template,
			Data:     data,
			Email:    true,
			EmailTo:  recipient.Email,
		})
		if err != nil {
			s.logger.Warn("staff notification failed",
				zap.String("thread_id", thread.ThreadID),
				zap.String("user_id", recipient.ID),
				zap.Error(err),
			)
		}
	}
}

func (s *FeedbackService) notifyClient(ctx context.Context, template notify.TemplateKey, thread *domain.Thread, extra map[string]any) {
	data := map[string]any{
		"ThreadID": thread.ThreadID,
		"Subject":  thread.Subject,
	}
	for k, v := range extra {
		data[k] = v
	}
	event := notify.Event{
		UserID:   thread.ClientID,
		Template: template,
		Data:     data,
	}
	if client, err := s.directory.GetUser(ctx, thread.ClientID); err == nil {
		event.Email = true
		event.EmailTo = client.Email
	}
	if _, err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("client notification failed",
			zap.String("thread_id", thread.ThreadID),
			zap.String("user_id", thread.ClientID),
			zap.Error(err),
		)
	}
}
