package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"mime"
	netmail "net/mail"
	"testing"

	"random-coffee/internal/config"
	"random-coffee/internal/notification"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func TestBuildMessage_SetsHeaders(t *testing.T) {
	m, err := buildMessage("coffee@example.com", notification.Email{
		To:      "ann@example.com",
		Subject: "Your Match",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Your Match"}, m.GetGenHeader(mail.HeaderSubject))
	rcpts, err := m.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"ann@example.com"}, rcpts)
}

func TestBuildMessage_UTF8SubjectRoundTrips(t *testing.T) {
	m, err := buildMessage("coffee@example.com", notification.Email{
		To:      "ann@example.com",
		Subject: "☕ Match",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)

	parsed, err := netmail.ReadMessage(&buf)
	require.NoError(t, err)
	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "☕ Match", subject)
}

func TestBuildMessage_RejectsBadAddress(t *testing.T) {
	_, err := buildMessage("coffee@example.com", notification.Email{To: "not an address"})
	require.Error(t, err)
}

func TestSMTPSender_WrapsSendError(t *testing.T) {
	boom := errors.New("550 mailbox unavailable")
	var got *mail.Msg
	s := &SMTPSender{
		from:   "coffee@example.com",
		logger: quiet(),
		send: func(_ context.Context, m *mail.Msg) error {
			got = m
			return boom
		},
	}

	err := s.SendEmail(context.Background(), notification.Email{To: "ann@example.com", Subject: "s", HTML: "<p>x</p>"})
	assert.ErrorIs(t, err, boom)
	assert.NotNil(t, got)
}

func TestNewSMTPSender_RequiresFrom(t *testing.T) {
	_, err := NewSMTPSender(config.EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587}, quiet())
	require.Error(t, err)
}

type fakeSES struct {
	in  *sesv2.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("m-1")}, nil
}

func TestSESSender_BuildsSimpleMessage(t *testing.T) {
	api := &fakeSES{}
	s := &SESSender{from: "coffee@example.com", api: api, logger: quiet()}

	err := s.SendEmail(context.Background(), notification.Email{To: "ann@example.com", Subject: "s", HTML: "<p>x</p>"})
	require.NoError(t, err)

	require.NotNil(t, api.in)
	assert.Equal(t, "coffee@example.com", aws.ToString(api.in.FromEmailAddress))
	assert.Equal(t, []string{"ann@example.com"}, api.in.Destination.ToAddresses)
	assert.Equal(t, "s", aws.ToString(api.in.Content.Simple.Subject.Data))
	assert.Equal(t, "<p>x</p>", aws.ToString(api.in.Content.Simple.Body.Html.Data))
	assert.Nil(t, api.in.Content.Simple.Body.Text)
}

func TestSESSender_WrapsError(t *testing.T) {
	boom := errors.New("throttled")
	s := &SESSender{from: "coffee@example.com", api: &fakeSES{err: boom}, logger: quiet()}

	err := s.SendEmail(context.Background(), notification.Email{To: "ann@example.com"})
	assert.ErrorIs(t, err, boom)
}

func TestNew_NoneDisablesEmail(t *testing.T) {
	s, err := New(context.Background(), config.EmailConfig{Provider: config.EmailProviderNone}, quiet())
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = New(context.Background(), config.EmailConfig{Provider: "pigeon"}, quiet())
	require.Error(t, err)
}
