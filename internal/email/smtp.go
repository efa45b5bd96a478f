// Package email provides the best-effort email delivery collaborator.
package email

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/spec-kit/feedback-service/internal/config"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers notification emails. Delivery is best-effort; callers must
// never block domain writes on it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Enabled() bool
}

type smtpSender struct {
	cfg    config.EmailConfig
	server string
	auth   smtp.Auth
}

// NewSMTPSender builds a plain SMTP sender from config. When Host or From is
// empty the sender reports Enabled()==false and Send rejects immediately.
func NewSMTPSender(cfg config.EmailConfig) Sender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpSender{
		cfg:    cfg,
		server: cfg.Host + ":" + cfg.Port,
		auth:   auth,
	}
}

func (s *smtpSender) Enabled() bool {
	return s.cfg.Host != "" && s.cfg.From != ""
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if !s.Enabled() {
		return fmt.Errorf("email not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	}

	var body bytes.Buffer
	fmt.Fprintf(&body, "To: %s\r\n", msg.To)
	fmt.Fprintf(&body, "From: %s\r\n", from)
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&body, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&body, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&body, "\r\n")
	fmt.Fprintf(&body, "%s\r\n", msg.HTML)

	return smtp.SendMail(s.server, s.auth, s.cfg.From, []string{msg.To}, body.Bytes())
}
