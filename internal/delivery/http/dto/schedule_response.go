package dto

import "time"

type ScheduleResponse struct {
	ScheduleDays    []string   `json:"schedule_days"`
	ScheduleTime    string     `json:"schedule_time"`
	LastRunAt       *time.Time `json:"last_run_at"`
	CanRunNow       bool       `json:"can_run_now"`
	CooldownMinutes int        `json:"cooldown_minutes"`
}

// UpdateScheduleRequest is a partial update; omitted fields stay unchanged.
type UpdateScheduleRequest struct {
	ScheduleDays *[]string `json:"schedule_days"`
	ScheduleTime *string   `json:"schedule_time"`
}
