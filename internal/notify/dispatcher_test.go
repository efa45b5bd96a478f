package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/email"
	"github.com/spec-kit/feedback-service/pkg/clock"
	"github.com/spec-kit/feedback-service/pkg/util"
)

type seqGenerator struct {
	n int
}

func (g *seqGenerator) NewThreadID() string {
	g.n++
	return "FB-TEST"
}

func (g *seqGenerator) NewNotificationID() string {
	g.n++
	return "notif-test"
}

type captureSender struct {
	err  error
	sent chan email.Message
}

func newCaptureSender(err error) *captureSender {
	return &captureSender{err: err, sent: make(chan email.Message, 1)}
}

func (s *captureSender) Send(ctx context.Context, msg email.Message) error {
	s.sent <- msg
	return s.err
}

func (s *captureSender) Enabled() bool { return true }

type failingStore struct {
	Store
}

func (failingStore) Append(ctx context.Context, userID string, n *domain.Notification) error {
	return errors.New("connection refused")
}

func newTestDispatcher(store Store, sender email.Sender, ttlDays int) (*Dispatcher, *clock.Fixed) {
	clk := &clock.Fixed{Time: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewDispatcher(store, sender, &seqGenerator{}, clk, zap.NewNop(), ttlDays), clk
}

func TestDispatcherNotifyAppendsToStore(t *testing.T) {
	store := NewMemoryStore(50, &clock.Fixed{Time: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})
	dispatcher, clk := newTestDispatcher(store, nil, 30)

	n, err := dispatcher.Notify(context.Background(), Event{
		UserID:   "staff-1",
		Template: TemplateFeedbackReceived,
		Data: map[string]any{
			"ClientName": "Acme Corp",
			"ThreadID":   "FB-3F9A217C",
			"Subject":    "Billing issue",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "New Feedback", n.Title)
	assert.Equal(t, "Acme Corp submitted feedback on thread FB-3F9A217C: Billing issue", n.Message)
	assert.Equal(t, domain.NotificationInfo, n.Type)
	assert.Equal(t, "support", n.Category)
	require.NotNil(t, n.ExpiresAt)
	assert.Equal(t, clk.Now().Add(30*24*time.Hour), *n.ExpiresAt)

	items, err := store.List(context.Background(), "staff-1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, n.ID, items[0].ID)
}

func TestDispatcherNotifyUnknownTemplate(t *testing.T) {
	store := NewMemoryStore(50, &clock.Fixed{Time: time.Now()})
	dispatcher, _ := newTestDispatcher(store, nil, 0)

	_, err := dispatcher.Notify(context.Background(), Event{
		UserID:   "staff-1",
		Template: TemplateKey("NO_SUCH_TEMPLATE"),
	})
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "VALIDATION_FAILED"))
}

func TestDispatcherNotifyStoreFailure(t *testing.T) {
	dispatcher, _ := newTestDispatcher(failingStore{}, nil, 0)

	_, err := dispatcher.Notify(context.Background(), Event{
		UserID:   "staff-1",
		Template: TemplateFeedbackReceived,
	})
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "STORE_UNAVAILABLE"))
}

func TestDispatcherEmailMirror(t *testing.T) {
	store := NewMemoryStore(50, &clock.Fixed{Time: time.Now()})
	sender := newCaptureSender(nil)
	dispatcher, _ := newTestDispatcher(store, sender, 0)

	_, err := dispatcher.Notify(context.Background(), Event{
		UserID:   "client-1",
		Template: TemplateFeedbackResponse,
		Data:     map[string]any{"ThreadID": "FB-TEST", "Subject": "Billing issue"},
		Email:    true,
		EmailTo:  "client@example.com",
	})
	require.NoError(t, err)

	select {
	case msg := <-sender.sent:
		assert.Equal(t, "client@example.com", msg.To)
		assert.Equal(t, "Feedback Response", msg.Subject)
		assert.Contains(t, msg.HTML, "FB-TEST")
	case <-time.After(time.Second):
		t.Fatal("email was not dispatched")
	}
}

func TestDispatcherEmailFailureIsSwallowed(t *testing.T) {
	store := NewMemoryStore(50, &clock.Fixed{Time: time.Now()})
	sender := newCaptureSender(errors.New("smtp: connection reset"))
	dispatcher, _ := newTestDispatcher(store, sender, 0)

	n, err := dispatcher.Notify(context.Background(), Event{
		UserID:   "client-1",
		Template: TemplateFeedbackStatus,
		Data:     map[string]any{"ThreadID": "FB-TEST", "Status": "resolved"},
		Email:    true,
		EmailTo:  "client@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your feedback FB-TEST is now resolved.", n.Message)

	select {
	case <-sender.sent:
	case <-time.After(time.Second):
		t.Fatal("email was not attempted")
	}

	// The stored notification is unaffected by the failed delivery.
	items, listErr := store.List(context.Background(), "client-1", ListOptions{})
	require.NoError(t, listErr)
	require.Len(t, items, 1)
}

func TestDispatcherSkipsEmailWithoutRecipient(t *testing.T) {
	store := NewMemoryStore(50, &clock.Fixed{Time: time.Now()})
	sender := newCaptureSender(nil)
	dispatcher, _ := newTestDispatcher(store, sender, 0)

	_, err := dispatcher.Notify(context.Background(), Event{
		UserID:   "client-1",
		Template: TemplateFeedbackResponse,
		Email:    true,
	})
	require.NoError(t, err)

	select {
	case <-sender.sent:
		t.Fatal("email should not be sent without a recipient")
	case <-time.After(50 * time.Millisecond):
	}
}
