package notification

import (
	"context"
	"log"
	"time"

	"random-coffee/internal/domain/pairing"
)

type Dispatcher struct {
	chat     ChatSender
	email    EmailSender
	renderer TemplateRenderer
	delay    time.Duration
	logger   *log.Logger

	sleep func(ctx context.Context, d time.Duration)
}

type Option func(*Dispatcher)

// WithDelay sets the pause inserted between two consecutive sends.
func WithDelay(d time.Duration) Option {
	return func(x *Dispatcher) { x.delay = d }
}

func WithLogger(l *log.Logger) Option {
	return func(x *Dispatcher) {
		if l != nil {
			x.logger = l
		}
	}
}

func withSleep(fn func(ctx context.Context, d time.Duration)) Option {
	return func(x *Dispatcher) { x.sleep = fn }
}

// NewDispatcher builds a dispatcher. A nil chat or email sender disables that
// channel; a nil renderer uses the built-in template only.
func NewDispatcher(chat ChatSender, email EmailSender, renderer TemplateRenderer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		chat:     chat,
		email:    email,
		renderer: renderer,
		logger:   log.Default(),
		sleep:    sleepCtx,
	}
	if d.renderer == nil {
		d.renderer = StaticRenderer{Template: DefaultTemplate}
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Notify tells both members of every pair who they were matched with, over
// each channel their preference allows. Sends run one at a time.
func (d *Dispatcher) Notify(ctx context.Context, pairs []pairing.Pair, prompts []string) Report {
	var rep Report
	if d == nil {
		return rep
	}
	pc := &pacer{delay: d.delay, sleep: d.sleep}
	for _, p := range pairs {
		rep = rep.Add(d.notifyOne(ctx, pc, p.A, p.B, prompts))
		rep = rep.Add(d.notifyOne(ctx, pc, p.B, p.A, prompts))
	}
	d.logger.Printf(
		"notify status=done pairs=%d chat_sent=%d chat_failed=%d email_sent=%d email_failed=%d skipped=%d",
		len(pairs), rep.ChatSent, rep.ChatFailed, rep.EmailSent, rep.EmailFailed, rep.Skipped,
	)
	return rep
}

func (d *Dispatcher) notifyOne(ctx context.Context, pc *pacer, recipient, match pairing.Candidate, prompts []string) Report {
	var rep Report
	mode := pairing.ParseMode(string(recipient.Mode))
	attempted := false

	if mode.WantsChat() && d.chat != nil {
		attempted = true
		pc.wait(ctx)
		if err := d.chat.SendChat(ctx, recipient.UserID, ChatMessage(match, prompts)); err != nil {
			rep.ChatFailed++
			d.logger.Printf("notify channel=chat user_id=%d status=error err=%v", recipient.UserID, err)
		} else {
			rep.ChatSent++
		}
	}

	if mode.WantsEmail() && recipient.HasEmail() && d.email != nil {
		attempted = true
		if err := d.sendEmail(ctx, pc, recipient, match, prompts); err != nil {
			rep.EmailFailed++
			d.logger.Printf("notify channel=email user_id=%d status=error err=%v", recipient.UserID, err)
		} else {
			rep.EmailSent++
		}
	}

	if !attempted {
		rep.Skipped++
	}
	return rep
}

func (d *Dispatcher) sendEmail(ctx context.Context, pc *pacer, recipient, match pairing.Candidate, prompts []string) error {
	out, err := d.renderer.Render(ctx, EmailVariables(recipient, match, prompts))
	if err != nil {
		return err
	}
	pc.wait(ctx)
	return d.email.SendEmail(ctx, Email{
		To:      recipient.Email,
		Subject: out.Subject,
		HTML:    out.HTML,
		Text:    out.Text,
	})
}

// pacer sleeps before every send except the first of a Notify call.
type pacer struct {
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration)
	sent  int
}

func (p *pacer) wait(ctx context.Context) {
	if p.sent > 0 && p.delay > 0 {
		p.sleep(ctx, p.delay)
	}
	p.sent++
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
