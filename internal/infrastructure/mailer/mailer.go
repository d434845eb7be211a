// Package mailer implements notification.EmailSender over SMTP and Amazon SES.
package mailer

import (
	"context"
	"fmt"
	"log"

	"random-coffee/internal/config"
	"random-coffee/internal/notification"
)

// New builds the sender selected by cfg.Provider. The "none" provider returns
// a nil sender, which disables the email channel.
func New(ctx context.Context, cfg config.EmailConfig, logger *log.Logger) (notification.EmailSender, error) {
	switch cfg.Provider {
	case config.EmailProviderNone, "":
		return nil, nil
	case config.EmailProviderSMTP:
		s, err := NewSMTPSender(cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.EmailProviderSES:
		s, err := NewSESSender(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
