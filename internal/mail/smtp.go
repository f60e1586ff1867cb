package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/url"
)

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host    string
	Port    int
	User    string
	Pass    string
	From    string
	BaseURL string
}

// SMTPSender implements Sender over a plain SMTP relay.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender creates a new SMTP-backed mail sender.
func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger}
}

// SendVerification mails the email verification link after registration.
func (s *SMTPSender) SendVerification(ctx context.Context, to, name, token string) error {
	link := s.cfg.BaseURL + "/verify-email?token=" + url.QueryEscape(token)
	return s.send(ctx, to, "Verify your email", verificationBody(name, link))
}

// SendPasswordReset mails the password reset link.
func (s *SMTPSender) SendPasswordReset(ctx context.Context, to, name, token string) error {
	link := s.cfg.BaseURL + "/reset-password?token=" + url.QueryEscape(token)
	return s.send(ctx, to, "Reset your password", resetBody(name, link))
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.cfg.From, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to send mail",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	s.logger.DebugContext(ctx, "mail sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)

	return nil
}
