package pairing

import (
	"strings"
	"time"
)

type CommunicationMode string

const (
	ModeTelegramOnly CommunicationMode = "telegram_only"
	ModeEmailOnly    CommunicationMode = "email_only"
	ModeBoth         CommunicationMode = "email+telegram"
)

// ParseMode maps a stored preference to a known mode. Empty or unknown values
// resolve to ModeBoth.
func ParseMode(raw string) CommunicationMode {
	switch CommunicationMode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeTelegramOnly:
		return ModeTelegramOnly
	case ModeEmailOnly:
		return ModeEmailOnly
	default:
		return ModeBoth
	}
}

func (m CommunicationMode) WantsChat() bool {
	return m != ModeEmailOnly
}

func (m CommunicationMode) WantsEmail() bool {
	return m != ModeTelegramOnly
}

type Candidate struct {
	UserID      int64
	Username    string
	FullName    string
	Email       string
	Segment     string
	Affiliation string
	About       string
	Mode        CommunicationMode
}

func (c Candidate) HasEmail() bool {
	return strings.TrimSpace(c.Email) != ""
}

type Pair struct {
	A Candidate
	B Candidate
}

func (p Pair) Key() Key {
	return Canonical(p.A.UserID, p.B.UserID)
}

// Key identifies a pairing record. Low is always the numerically smaller id.
type Key struct {
	Low  int64
	High int64
}

func Canonical(a, b int64) Key {
	if a <= b {
		return Key{Low: a, High: b}
	}
	return Key{Low: b, High: a}
}

type Record struct {
	Key           Key
	LastMatchedAt time.Time
}

type WeeklySnapshot struct {
	WeekDate time.Time
	Key      Key
}

// WeekStart returns local midnight of the Monday of the week containing t in loc.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	y, m, d := local.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}

// WeekDate is the calendar date of WeekStart, expressed as UTC midnight so it
// stores identically in DATE columns of every backend.
func WeekDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := WeekStart(t, loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RecentlyPaired reports whether lastMatchedAt falls inside the lookback window
// ending at now. A zero lastMatchedAt or non-positive window is never recent.
func RecentlyPaired(lastMatchedAt, now time.Time, lookbackWeeks int) bool {
	if lastMatchedAt.IsZero() || lookbackWeeks <= 0 {
		return false
	}
	return now.Sub(lastMatchedAt) < time.Duration(lookbackWeeks)*7*24*time.Hour
}
