// Package notification fans a run's pairs out to the chat and email channels.
// Every send is isolated: a failure is logged and counted, never returned.
package notification

import (
	"context"
)

// ChatSender delivers a Markdown message to a chat user.
type ChatSender interface {
	SendChat(ctx context.Context, userID int64, text string) error
}

// EmailSender delivers one rendered email.
type EmailSender interface {
	SendEmail(ctx context.Context, msg Email) error
}

type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Report counts the outcome of one Notify call.
type Report struct {
	ChatSent    int `json:"chat_sent"`
	ChatFailed  int `json:"chat_failed"`
	EmailSent   int `json:"email_sent"`
	EmailFailed int `json:"email_failed"`
	Skipped     int `json:"skipped"`
}

func (r Report) Add(o Report) Report {
	return Report{
		ChatSent:    r.ChatSent + o.ChatSent,
		ChatFailed:  r.ChatFailed + o.ChatFailed,
		EmailSent:   r.EmailSent + o.EmailSent,
		EmailFailed: r.EmailFailed + o.EmailFailed,
		Skipped:     r.Skipped + o.Skipped,
	}
}
