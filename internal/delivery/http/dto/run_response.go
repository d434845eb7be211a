package dto

import (
	"time"

	"random-coffee/internal/notification"

	"github.com/google/uuid"
)

type PairResponse struct {
	UserA int64 `json:"user_a"`
	UserB int64 `json:"user_b"`
}

type RunResponse struct {
	RunID         uuid.UUID           `json:"run_id"`
	Pairs         int                 `json:"pairs"`
	Unmatched     []int64             `json:"unmatched"`
	Matches       []PairResponse      `json:"matches"`
	Notifications notification.Report `json:"notifications"`
}

type RunLogResponse struct {
	ID             uuid.UUID  `json:"id"`
	RunType        string     `json:"run_type"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
	PairsCount     int        `json:"pairs_count"`
	UnmatchedCount int        `json:"unmatched_count"`
	Status         string     `json:"status"`
	ErrorText      *string    `json:"error_text"`
	TriggeredBy    *int64     `json:"triggered_by"`
}
