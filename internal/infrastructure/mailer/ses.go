package mailer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"random-coffee/internal/config"
	"random-coffee/internal/notification"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESSender struct {
	from   string
	api    sesAPI
	logger *log.Logger
}

func NewSESSender(ctx context.Context, cfg config.EmailConfig, logger *log.Logger) (*SESSender, error) {
	if logger == nil {
		logger = log.Default()
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("ses sender: EMAIL_FROM required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESSender{from: cfg.From, api: sesv2.NewFromConfig(awsCfg), logger: logger}, nil
}

func (s *SESSender) SendEmail(ctx context.Context, msg notification.Email) error {
	if s == nil || s.api == nil {
		return fmt.Errorf("nil ses sender")
	}

	body := &types.Body{}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")}
	}
	if msg.Text != "" {
		body.Text = &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")}
	}

	out, err := s.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", msg.To, err)
	}
	s.logger.Printf("email provider=ses to=%s message_id=%s status=sent", msg.To, aws.ToString(out.MessageId))
	return nil
}
