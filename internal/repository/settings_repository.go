package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"random-coffee/internal/database"
)

const DefaultScheduleTime = "09:00"

type MatchSettings struct {
	ScheduleDays []string
	ScheduleTime string
	LastRunAt    *time.Time
}

type SettingsRepository interface {
	Get(ctx context.Context) (MatchSettings, error)
	UpdateSchedule(ctx context.Context, days []string, at string) error
	TouchLastRun(ctx context.Context, at time.Time) error
}

type SQLSettingsRepository struct {
	db database.DB
}

func NewSQLSettingsRepository(db database.DB) *SQLSettingsRepository {
	return &SQLSettingsRepository{db: db}
}

// Get returns the singleton settings row, or defaults when it was never written.
func (r *SQLSettingsRepository) Get(ctx context.Context) (MatchSettings, error) {
	var days string
	var s MatchSettings
	err := r.db.QueryRow(
		ctx,
		`SELECT schedule_days, schedule_time, last_run_at FROM match_settings WHERE id = 1`,
	).Scan(&days, &s.ScheduleTime, &s.LastRunAt)
	if errors.Is(err, database.ErrNoRows) {
		return MatchSettings{ScheduleDays: []string{}, ScheduleTime: DefaultScheduleTime}, nil
	}
	if err != nil {
		return MatchSettings{}, err
	}
	s.ScheduleDays = splitList(days)
	if s.LastRunAt != nil {
		t := s.LastRunAt.UTC()
		s.LastRunAt = &t
	}
	return s, nil
}

func (r *SQLSettingsRepository) UpdateSchedule(ctx context.Context, days []string, at string) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO match_settings (id, schedule_days, schedule_time) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET schedule_days = EXCLUDED.schedule_days, schedule_time = EXCLUDED.schedule_time`,
		strings.Join(days, ","),
		at,
	)
	return err
}

func (r *SQLSettingsRepository) TouchLastRun(ctx context.Context, at time.Time) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO match_settings (id, schedule_time, last_run_at) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET last_run_at = EXCLUDED.last_run_at`,
		DefaultScheduleTime,
		at.UTC(),
	)
	return err
}
