package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Mailer is the outbound mail transport behind the dispatcher.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer logs payloads instead of delivering them. Wired when no SMTP
// transport is configured so delivery stays a best-effort side channel.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer builds the log-only transport.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send records the message and always succeeds.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("mail transport unconfigured, logging notification",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}

// SMTPMailer delivers mail over a plain SMTP endpoint.
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer builds the SMTP transport.
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from}
}

// Send delivers one message.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	return smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg))
}
