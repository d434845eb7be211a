package usecase

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrInternal       = errors.New("internal error")
	ErrRunInProgress  = errors.New("matching run already in progress")
	ErrCooldownActive = errors.New("cooldown active")
)

// CooldownError reports how long until the next run is allowed. It matches
// ErrCooldownActive with errors.Is.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active: %d min remaining", CeilMinutes(e.Remaining))
}

func (e *CooldownError) Unwrap() error { return ErrCooldownActive }

// CeilMinutes rounds d up to whole minutes.
func CeilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}
