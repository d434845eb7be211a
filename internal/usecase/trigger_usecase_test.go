package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"random-coffee/internal/domain/pairing"
	"random-coffee/internal/notification"
	"random-coffee/internal/repository"
	"random-coffee/internal/ws"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	s         repository.MatchSettings
	getErr    error
	touched   []time.Time
	updates   int
	updateErr error
	touchErr  error
}

func (f *fakeSettings) Get(context.Context) (repository.MatchSettings, error) {
	return f.s, f.getErr
}

func (f *fakeSettings) UpdateSchedule(_ context.Context, days []string, at string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	f.s.ScheduleDays = days
	f.s.ScheduleTime = at
	return nil
}

func (f *fakeSettings) TouchLastRun(_ context.Context, at time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touched = append(f.touched, at)
	f.s.LastRunAt = &at
	return nil
}

type fakeRunLogs struct {
	started  []string
	finished []repository.RunLog
	limit    int
	startErr error
}

func (f *fakeRunLogs) Start(_ context.Context, runType string, triggeredBy *int64, startedAt time.Time) (repository.RunLog, error) {
	if f.startErr != nil {
		return repository.RunLog{}, f.startErr
	}
	f.started = append(f.started, runType)
	return repository.RunLog{ID: uuid.New(), RunType: runType, TriggeredBy: triggeredBy, StartedAt: startedAt}, nil
}

func (f *fakeRunLogs) Finish(_ context.Context, id uuid.UUID, status string, pairs, unmatched int, errText string, _ time.Time) error {
	f.finished = append(f.finished, repository.RunLog{ID: id, Status: status, PairsCount: pairs, UnmatchedCount: unmatched, ErrorText: errText})
	return nil
}

func (f *fakeRunLogs) ListRecent(_ context.Context, limit int) ([]repository.RunLog, error) {
	f.limit = limit
	return nil, nil
}

type fakeLocker struct {
	held     bool
	err      error
	unlocked int
}

func (f *fakeLocker) TryLock(context.Context, string, string, time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.held {
		return false, nil
	}
	return true, nil
}

func (f *fakeLocker) Unlock(context.Context, string, string) error {
	f.unlocked++
	return nil
}

type fakePublisher struct {
	events []ws.RunFinishedEvent
}

func (f *fakePublisher) PublishRunFinished(evt ws.RunFinishedEvent, _ time.Time) {
	f.events = append(f.events, evt)
}

type fakeRunner struct {
	res   RunResult
	err   error
	calls int
}

func (f *fakeRunner) RunOnce(context.Context) (RunResult, error) {
	f.calls++
	return f.res, f.err
}

type triggerFixture struct {
	settings  *fakeSettings
	logs      *fakeRunLogs
	locker    *fakeLocker
	publisher *fakePublisher
	runner    *fakeRunner
	uc        *Trigger
	now       time.Time
}

func newTriggerFixture(t *testing.T) *triggerFixture {
	t.Helper()
	f := &triggerFixture{
		settings:  &fakeSettings{s: repository.MatchSettings{ScheduleDays: []string{"mon"}, ScheduleTime: "09:00"}},
		logs:      &fakeRunLogs{},
		locker:    &fakeLocker{},
		publisher: &fakePublisher{},
		runner: &fakeRunner{res: RunResult{
			Pairs:         []pairing.Pair{{A: pairing.Candidate{UserID: 1}, B: pairing.Candidate{UserID: 2}}},
			Unmatched:     []pairing.Candidate{{UserID: 3}},
			Notifications: notification.Report{ChatSent: 2, EmailSent: 1, EmailFailed: 1},
		}},
		now: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
	}
	f.uc = NewTriggerUsecase(f.runner, f.settings, f.logs, f.locker, f.publisher, TriggerOptions{Cooldown: time.Hour}, quietLogger())
	f.uc.now = func() time.Time { return f.now }
	return f
}

func TestTrigger_RunManual_RecordsRun(t *testing.T) {
	f := newTriggerFixture(t)
	hooked := 0
	f.uc.OnFinish(func(context.Context) { hooked++ })

	out, err := f.uc.RunManual(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, out.Result.Pairs, 1)
	assert.NotEqual(t, uuid.Nil, out.RunID)

	assert.Equal(t, []string{repository.RunTypeManual}, f.logs.started)
	require.Len(t, f.logs.finished, 1)
	assert.Equal(t, repository.RunStatusOK, f.logs.finished[0].Status)
	assert.Equal(t, 1, f.logs.finished[0].PairsCount)
	assert.Equal(t, 1, f.logs.finished[0].UnmatchedCount)

	require.Len(t, f.settings.touched, 1)
	assert.Equal(t, f.now, f.settings.touched[0])
	assert.Equal(t, 1, f.locker.unlocked)
	assert.Equal(t, 1, hooked)

	require.Len(t, f.publisher.events, 1)
	evt := f.publisher.events[0]
	assert.Equal(t, repository.RunTypeManual, evt.RunType)
	assert.Equal(t, repository.RunStatusOK, evt.Status)
	assert.Equal(t, 2, evt.ChatSent)
	assert.Equal(t, 1, evt.SendFailed)
}

func TestTrigger_CooldownBlocksSecondRun(t *testing.T) {
	f := newTriggerFixture(t)

	_, err := f.uc.RunScheduled(context.Background())
	require.NoError(t, err)

	f.now = f.now.Add(20*time.Minute + 30*time.Second)
	_, err = f.uc.RunManual(context.Background(), 42)
	require.ErrorIs(t, err, ErrCooldownActive)

	var cd *CooldownError
	require.True(t, errors.As(err, &cd))
	assert.Equal(t, 40, CeilMinutes(cd.Remaining))
	assert.Equal(t, 1, f.runner.calls)

	f.now = f.now.Add(40 * time.Minute)
	ok, remaining, err := f.uc.CanRunNow(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, remaining)
}

func TestTrigger_LockHeldReturnsInProgress(t *testing.T) {
	f := newTriggerFixture(t)
	f.locker.held = true

	_, err := f.uc.RunManual(context.Background(), 42)
	require.ErrorIs(t, err, ErrRunInProgress)
	assert.Zero(t, f.runner.calls)
	assert.Empty(t, f.settings.touched)
	assert.Zero(t, f.locker.unlocked)
}

func TestTrigger_LockErrorIsBypassed(t *testing.T) {
	f := newTriggerFixture(t)
	f.locker.err = errors.New("redis down")

	_, err := f.uc.RunManual(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, f.runner.calls)
}

func TestTrigger_FailedRunIsLogged(t *testing.T) {
	f := newTriggerFixture(t)
	f.runner.res = RunResult{}
	f.runner.err = errors.New("persist pairs: deadlock")
	hooked := 0
	f.uc.OnFinish(func(context.Context) { hooked++ })

	_, err := f.uc.RunScheduled(context.Background())
	require.ErrorIs(t, err, ErrInternal)

	require.Len(t, f.logs.finished, 1)
	assert.Equal(t, repository.RunStatusFailed, f.logs.finished[0].Status)
	assert.Equal(t, "persist pairs: deadlock", f.logs.finished[0].ErrorText)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, repository.RunStatusFailed, f.publisher.events[0].Status)
	assert.Zero(t, hooked)
	assert.Equal(t, 1, f.locker.unlocked)
}

func TestTrigger_UpdateSchedule(t *testing.T) {
	f := newTriggerFixture(t)
	days := []string{"Friday", "mon", " TUE ", "monday"}
	at := "7:30"

	view, err := f.uc.UpdateSchedule(context.Background(), ScheduleInput{Days: &days, Time: &at})
	require.NoError(t, err)
	assert.Equal(t, []string{"mon", "tue", "fri"}, view.Days)
	assert.Equal(t, "07:30", view.Time)
	assert.True(t, view.CanRunNow)

	onlyTime := "18:05"
	view, err = f.uc.UpdateSchedule(context.Background(), ScheduleInput{Time: &onlyTime})
	require.NoError(t, err)
	assert.Equal(t, []string{"mon", "tue", "fri"}, view.Days)
	assert.Equal(t, "18:05", view.Time)
}

func TestTrigger_UpdateScheduleRejectsBadInput(t *testing.T) {
	f := newTriggerFixture(t)
	badDay := []string{"someday"}
	badTime := "25:00"

	_, err := f.uc.UpdateSchedule(context.Background(), ScheduleInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.uc.UpdateSchedule(context.Background(), ScheduleInput{Days: &badDay})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.uc.UpdateSchedule(context.Background(), ScheduleInput{Time: &badTime})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, f.settings.updates)
}

func TestTrigger_ScheduleReportsCooldown(t *testing.T) {
	f := newTriggerFixture(t)
	last := f.now.Add(-15 * time.Minute)
	f.settings.s.LastRunAt = &last

	view, err := f.uc.Schedule(context.Background())
	require.NoError(t, err)
	assert.False(t, view.CanRunNow)
	assert.Equal(t, 45, view.CooldownMinutes)
}

func TestTrigger_HistoryClampsLimit(t *testing.T) {
	f := newTriggerFixture(t)
	cases := map[int]int{0: 20, -3: 20, 5: 5, 1000: 200}
	for in, want := range cases {
		_, err := f.uc.History(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, want, f.logs.limit, "limit %d", in)
	}
}

func TestTrigger_LogStartFailure_KeepsCooldownUnspent(t *testing.T) {
	f := newTriggerFixture(t)
	f.logs.startErr = errors.New("disk full")

	_, err := f.uc.RunManual(context.Background(), 42)
	require.ErrorIs(t, err, ErrInternal)

	assert.Empty(t, f.settings.touched)
	assert.Nil(t, f.settings.s.LastRunAt)
	assert.Equal(t, 0, f.runner.calls)

	ok, _, err := f.uc.CanRunNow(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	f.logs.startErr = nil
	_, err = f.uc.RunManual(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, f.runner.calls)
}

func TestTrigger_StampFailure_ClosesRunLog(t *testing.T) {
	f := newTriggerFixture(t)
	f.settings.touchErr = errors.New("locked")

	out, err := f.uc.RunScheduled(context.Background())
	require.ErrorIs(t, err, ErrInternal)

	assert.Equal(t, 0, f.runner.calls)
	require.Len(t, f.logs.finished, 1)
	assert.Equal(t, out.RunID, f.logs.finished[0].ID)
	assert.Equal(t, repository.RunStatusFailed, f.logs.finished[0].Status)
	assert.Contains(t, f.logs.finished[0].ErrorText, "locked")
}
