package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// EmailSender interface for sending notification emails
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// Validate checks the SMTP configuration for required fields
func (c *SMTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SMTPEmailSender sends plain-text emails over SMTP with PLAIN auth
type SMTPEmailSender struct {
	config *SMTPConfig
}

// NewSMTPEmailSender creates a new SMTP email sender
func NewSMTPEmailSender(config *SMTPConfig) (*SMTPEmailSender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	return &SMTPEmailSender{config: config}, nil
}

func (s *SMTPEmailSender) Send(ctx context.Context, to, subject, body string) error {
	message := s.buildMessage(to, subject, body)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.config.Timeout):
		return fmt.Errorf("timed out sending email to %s", to)
	}
}

func (s *SMTPEmailSender) buildMessage(to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
