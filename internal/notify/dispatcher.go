package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/email"
	"github.com/spec-kit/feedback-service/internal/observability"
	"github.com/spec-kit/feedback-service/pkg/clock"
	"github.com/spec-kit/feedback-service/pkg/ids"
	"github.com/spec-kit/feedback-service/pkg/util"
)

const emailSendTimeout = 15 * time.Second

// Event is a domain occurrence the dispatcher translates into a notification.
type Event struct {
	UserID   string
	Template TemplateKey
	Data     map[string]any
	// Email requests a best-effort email mirror. EmailTo is the resolved
	// recipient address; when empty the mirror is skipped.
	Email   bool
	EmailTo string
	// ExpiresAt optionally bounds the notification's lifetime; zero means
	// the dispatcher applies its configured default TTL.
	ExpiresAt *time.Time
}

// Dispatcher persists notifications and fires the optional email side
// channel. Notification persistence and email delivery are decoupled: a
// failed send is logged and counted, never surfaced to the caller.
type Dispatcher struct {
	store  Store
	sender email.Sender
	ids    ids.Generator
	clock  clock.Clock
	logger *zap.Logger
	ttl    time.Duration
}

// NewDispatcher wires the dispatcher. sender may be nil when email delivery
// is not deployed; ttlDays <= 0 disables the default expiry.
func NewDispatcher(store Store, sender email.Sender, gen ids.Generator, clk clock.Clock, logger *zap.Logger, ttlDays int) *Dispatcher {
	var ttl time.Duration
	if ttlDays > 0 {
		ttl = time.Duration(ttlDays) * 24 * time.Hour
	}
	return &Dispatcher{
		store:  store,
		sender: sender,
		ids:    gen,
		clock:  clk,
		logger: logger,
		ttl:    ttl,
	}
}

// Notify resolves the event's template, appends the notification to the
// store, and fires the email mirror without awaiting it.
func (d *Dispatcher) Notify(ctx context.Context, event Event) (*domain.Notification, error) {
	tmpl, ok := Resolve(event.Template)
	if !ok {
		return nil, util.NewValidationError("unknown notification template", map[string]any{
			"template": string(event.Template),
		})
	}

	now := d.clock.Now()
	notification := &domain.Notification{
		ID:        d.ids.NewNotificationID(),
		UserID:    event.UserID,
		Title:     tmpl.Title,
		Message:   tmpl.RenderBody(event.Data),
		Type:      tmpl.Type,
		Category:  tmpl.Category,
		Data:      event.Data,
		CreatedAt: now,
	}
	if event.ExpiresAt != nil {
		notification.ExpiresAt = event.ExpiresAt
	} else if d.ttl > 0 {
		expires := now.Add(d.ttl)
		notification.ExpiresAt = &expires
	}

	if err := d.store.Append(ctx, event.UserID, notification); err != nil {
		return nil, util.NewStoreUnavailable(err)
	}
	observability.RecordNotification(string(event.Template))

	if event.Email && event.EmailTo != "" && d.sender != nil && d.sender.Enabled() {
		d.sendEmail(event.EmailTo, tmpl, notification)
	}

	return notification, nil
}

// sendEmail delivers the mirror in a goroutine with its own deadline so no
// caller lock or transaction is held across the SMTP round-trip.
func (d *Dispatcher) sendEmail(to string, tmpl Template, n *domain.Notification) {
	msg := email.Message{
		To:      to,
		Subject: n.Title,
		HTML:    tmpl.RenderEmailHTML(n.Message),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
		defer cancel()
		if err := d.sender.Send(ctx, msg); err != nil {
			observability.RecordEmail("failed")
			d.logger.Warn("email delivery failed",
				zap.String("to", to),
				zap.String("notification_id", n.ID),
				zap.Error(err),
			)
			return
		}
		observability.RecordEmail("sent")
	}()
}
