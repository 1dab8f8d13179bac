package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/frontdesk-api/internal/config"
)

type Service interface {
	SendWelcome(ctx context.Context, email string, name string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

// NewService returns an SMTP sender, or a no-op sender when no SMTP host is
// configured.
func NewService(cfg config.SMTPConfig) Service {
	if cfg.Host == "" {
		return NopService{}
	}
	return NewSMTPService(cfg)
}

type SMTPService struct {
	from string
	send func(m ...*gomail.Message) error
}

func NewSMTPService(cfg config.SMTPConfig) *SMTPService {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPService{
		from: cfg.From,
		send: dialer.DialAndSend,
	}
}

func (s *SMTPService) SendWelcome(ctx context.Context, email string, name string) error {
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your front desk account has been created. Sign in with your nurse ID and the password given to you by the administrator.</p>",
		name,
	)
	return s.SendCustom(ctx, email, "Welcome to the clinic front desk", body)
}

func (s *SMTPService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", content)

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

type NopService struct{}

func (NopService) SendWelcome(context.Context, string, string) error { return nil }

func (NopService) SendCustom(context.Context, string, string, string) error { return nil }
