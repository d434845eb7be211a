package mailer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"random-coffee/internal/config"
	"random-coffee/internal/notification"

	"github.com/wneessen/go-mail"
)

type SMTPSender struct {
	from   string
	client *mail.Client
	logger *log.Logger

	send func(ctx context.Context, m *mail.Msg) error
}

func NewSMTPSender(cfg config.EmailConfig, logger *log.Logger) (*SMTPSender, error) {
	if logger == nil {
		logger = log.Default()
	}
	from := cfg.From
	if strings.TrimSpace(from) == "" {
		from = cfg.SMTPUser
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp sender: EMAIL_FROM or SMTP_USER required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPass),
		)
	}
	c, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	s := &SMTPSender{from: from, client: c, logger: logger}
	s.send = func(ctx context.Context, m *mail.Msg) error {
		return s.client.DialAndSendWithContext(ctx, m)
	}
	return s, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, msg notification.Email) error {
	if s == nil || s.send == nil {
		return fmt.Errorf("nil smtp sender")
	}
	m, err := buildMessage(s.from, msg)
	if err != nil {
		return err
	}
	if err := s.send(ctx, m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	s.logger.Printf("email provider=smtp to=%s status=sent", msg.To)
	return nil
}

// buildMessage creates a multipart message with the plain-text body first and
// HTML as the alternative, or HTML only when there is no text body.
func buildMessage(from string, msg notification.Email) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("from %q: %w", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)

	if msg.Text != "" {
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		if msg.HTML != "" {
			m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
		}
	} else {
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}
