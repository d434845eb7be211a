package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"
)

type messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Sender delivers match cards as Telegram private messages.
type Sender struct {
	bot    messenger
	logger *log.Logger
}

func NewSender(token string, logger *log.Logger) (*Sender, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("empty telegram token")
	}
	if logger == nil {
		logger = log.Default()
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, _ tele.Context) {
			logger.Printf("telegram status=error err=%v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Sender{bot: b, logger: logger}, nil
}

func (s *Sender) SendChat(ctx context.Context, userID int64, text string) error {
	if s == nil || s.bot == nil {
		return fmt.Errorf("nil telegram sender")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.bot.Send(&tele.User{ID: userID}, text, tele.ModeMarkdown); err != nil {
		return fmt.Errorf("send to %d: %w", userID, err)
	}
	return nil
}
