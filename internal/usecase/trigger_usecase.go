package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"random-coffee/internal/repository"
	"random-coffee/internal/ws"

	"github.com/google/uuid"
)

const (
	RunLockKey = "matching:run:lock"

	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// Locker is a best-effort mutual exclusion across processes.
type Locker interface {
	TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, owner string) error
}

type EventPublisher interface {
	PublishRunFinished(evt ws.RunFinishedEvent, at time.Time)
}

type RunOutcome struct {
	RunID  uuid.UUID
	Result RunResult
}

type ScheduleView struct {
	Days            []string
	Time            string
	LastRunAt       *time.Time
	CanRunNow       bool
	CooldownMinutes int
}

// ScheduleInput carries a partial update; nil fields are left unchanged.
type ScheduleInput struct {
	Days *[]string
	Time *string
}

type TriggerUsecase interface {
	CanRunNow(ctx context.Context) (bool, time.Duration, error)
	RunManual(ctx context.Context, adminID int64) (RunOutcome, error)
	RunScheduled(ctx context.Context) (RunOutcome, error)
	Schedule(ctx context.Context) (ScheduleView, error)
	UpdateSchedule(ctx context.Context, in ScheduleInput) (ScheduleView, error)
	History(ctx context.Context, limit int) ([]repository.RunLog, error)
}

type TriggerOptions struct {
	Cooldown time.Duration
	LockTTL  time.Duration
}

type Trigger struct {
	runner    MatchingUsecase
	settings  repository.SettingsRepository
	runLogs   repository.RunLogRepository
	locker    Locker
	publisher EventPublisher
	onFinish  []func(ctx context.Context)
	opts      TriggerOptions

	now    func() time.Time
	logger *log.Logger
}

func NewTriggerUsecase(
	runner MatchingUsecase,
	settings repository.SettingsRepository,
	runLogs repository.RunLogRepository,
	locker Locker,
	publisher EventPublisher,
	opts TriggerOptions,
	logger *log.Logger,
) *Trigger {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Trigger{
		runner:    runner,
		settings:  settings,
		runLogs:   runLogs,
		locker:    locker,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
		logger:    logger,
	}
}

// OnFinish registers a hook called after every successful run.
func (u *Trigger) OnFinish(fn func(ctx context.Context)) {
	if fn != nil {
		u.onFinish = append(u.onFinish, fn)
	}
}

// CanRunNow reports whether the cooldown since the last run has elapsed and,
// if not, how long remains.
func (u *Trigger) CanRunNow(ctx context.Context) (bool, time.Duration, error) {
	s, err := u.settings.Get(ctx)
	if err != nil {
		return false, 0, err
	}
	return u.cooldownLeft(s)
}

func (u *Trigger) cooldownLeft(s repository.MatchSettings) (bool, time.Duration, error) {
	if s.LastRunAt == nil || u.opts.Cooldown <= 0 {
		return true, 0, nil
	}
	elapsed := u.now().Sub(*s.LastRunAt)
	if elapsed >= u.opts.Cooldown {
		return true, 0, nil
	}
	return false, u.opts.Cooldown - elapsed, nil
}

func (u *Trigger) RunManual(ctx context.Context, adminID int64) (RunOutcome, error) {
	return u.run(ctx, repository.RunTypeManual, &adminID)
}

func (u *Trigger) RunScheduled(ctx context.Context) (RunOutcome, error) {
	return u.run(ctx, repository.RunTypeScheduled, nil)
}

func (u *Trigger) run(ctx context.Context, runType string, triggeredBy *int64) (RunOutcome, error) {
	ok, remaining, err := u.CanRunNow(ctx)
	if err != nil {
		u.logger.Printf("matching_trigger type=%s step=cooldown status=error err=%v", runType, err)
		return RunOutcome{}, ErrInternal
	}
	if !ok {
		return RunOutcome{}, &CooldownError{Remaining: remaining}
	}

	owner := uuid.NewString()
	if u.locker != nil {
		locked, err := u.locker.TryLock(ctx, RunLockKey, owner, u.opts.LockTTL)
		if err != nil {
			u.logger.Printf("matching_trigger type=%s step=lock status=bypass err=%v", runType, err)
		} else if !locked {
			return RunOutcome{}, ErrRunInProgress
		}
		defer func() {
			if err := u.locker.Unlock(context.Background(), RunLockKey, owner); err != nil {
				u.logger.Printf("matching_trigger type=%s step=unlock status=error err=%v", runType, err)
			}
		}()
	}

	started := u.now()
	logEntry, err := u.runLogs.Start(ctx, runType, triggeredBy, started)
	if err != nil {
		u.logger.Printf("matching_trigger type=%s step=log_start status=error err=%v", runType, err)
		return RunOutcome{}, ErrInternal
	}

	// the cooldown is only spent once the run has a history row
	if err := u.settings.TouchLastRun(ctx, started); err != nil {
		u.logger.Printf("matching_trigger type=%s run_id=%s step=stamp status=error err=%v", runType, logEntry.ID, err)
		if ferr := u.runLogs.Finish(context.Background(), logEntry.ID, repository.RunStatusFailed, 0, 0, "stamp last run: "+err.Error(), u.now()); ferr != nil {
			u.logger.Printf("matching_trigger type=%s run_id=%s step=log_finish status=error err=%v", runType, logEntry.ID, ferr)
		}
		return RunOutcome{RunID: logEntry.ID}, ErrInternal
	}

	res, runErr := u.runner.RunOnce(ctx)

	status := repository.RunStatusOK
	errText := ""
	if runErr != nil {
		status = repository.RunStatusFailed
		errText = runErr.Error()
	}
	finished := u.now()
	if err := u.runLogs.Finish(context.Background(), logEntry.ID, status, len(res.Pairs), len(res.Unmatched), errText, finished); err != nil {
		u.logger.Printf("matching_trigger type=%s run_id=%s step=log_finish status=error err=%v", runType, logEntry.ID, err)
	}

	rep := res.Notifications
	if u.publisher != nil {
		u.publisher.PublishRunFinished(ws.RunFinishedEvent{
			RunType:    runType,
			Status:     status,
			Pairs:      len(res.Pairs),
			Unmatched:  len(res.Unmatched),
			ChatSent:   rep.ChatSent,
			EmailSent:  rep.EmailSent,
			SendFailed: rep.ChatFailed + rep.EmailFailed,
			Error:      errText,
		}, finished)
	}

	if runErr != nil {
		u.logger.Printf("matching_trigger type=%s run_id=%s status=failed err=%v", runType, logEntry.ID, runErr)
		return RunOutcome{RunID: logEntry.ID}, fmt.Errorf("%w: %v", ErrInternal, runErr)
	}

	for _, fn := range u.onFinish {
		fn(ctx)
	}

	u.logger.Printf("matching_trigger type=%s run_id=%s status=ok pairs=%d", runType, logEntry.ID, len(res.Pairs))
	return RunOutcome{RunID: logEntry.ID, Result: res}, nil
}

func (u *Trigger) Schedule(ctx context.Context) (ScheduleView, error) {
	s, err := u.settings.Get(ctx)
	if err != nil {
		u.logger.Printf("schedule step=get status=error err=%v", err)
		return ScheduleView{}, ErrInternal
	}
	ok, remaining, _ := u.cooldownLeft(s)
	return ScheduleView{
		Days:            s.ScheduleDays,
		Time:            s.ScheduleTime,
		LastRunAt:       s.LastRunAt,
		CanRunNow:       ok,
		CooldownMinutes: CeilMinutes(remaining),
	}, nil
}

func (u *Trigger) UpdateSchedule(ctx context.Context, in ScheduleInput) (ScheduleView, error) {
	if in.Days == nil && in.Time == nil {
		return ScheduleView{}, ErrInvalidInput
	}

	current, err := u.settings.Get(ctx)
	if err != nil {
		u.logger.Printf("schedule step=get status=error err=%v", err)
		return ScheduleView{}, ErrInternal
	}

	days := current.ScheduleDays
	if in.Days != nil {
		days, err = NormalizeDays(*in.Days)
		if err != nil {
			return ScheduleView{}, err
		}
	}
	at := current.ScheduleTime
	if in.Time != nil {
		at, err = NormalizeClock(*in.Time)
		if err != nil {
			return ScheduleView{}, err
		}
	}

	if err := u.settings.UpdateSchedule(ctx, days, at); err != nil {
		u.logger.Printf("schedule step=update status=error err=%v", err)
		return ScheduleView{}, ErrInternal
	}
	return u.Schedule(ctx)
}

func (u *Trigger) History(ctx context.Context, limit int) ([]repository.RunLog, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	logs, err := u.runLogs.ListRecent(ctx, limit)
	if err != nil {
		u.logger.Printf("run_history status=error err=%v", err)
		return nil, ErrInternal
	}
	return logs, nil
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

// NormalizeDays maps weekday names to three-letter lowercase codes in calendar
// order, dropping duplicates.
func NormalizeDays(in []string) ([]string, error) {
	seen := map[time.Weekday]bool{}
	for _, raw := range in {
		d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(raw))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, raw)
		}
		seen[d] = true
	}

	out := make([]string, 0, len(seen))
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		if seen[d] {
			out = append(out, DayCode(d))
		}
	}
	return out, nil
}

func DayCode(d time.Weekday) string {
	return strings.ToLower(d.String()[:3])
}

// NormalizeClock validates a 24h "H:MM" or "HH:MM" time and returns "HH:MM".
func NormalizeClock(raw string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: schedule time must be HH:MM", ErrInvalidInput)
	}
	return t.Format("15:04"), nil
}
