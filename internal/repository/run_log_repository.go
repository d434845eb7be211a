package repository

import (
	"context"
	"time"

	"random-coffee/internal/database"

	"github.com/google/uuid"
)

const (
	RunTypeManual    = "manual"
	RunTypeScheduled = "scheduled"

	RunStatusRunning = "running"
	RunStatusOK      = "ok"
	RunStatusFailed  = "failed"
)

type RunLog struct {
	ID             uuid.UUID
	RunType        string
	StartedAt      time.Time
	FinishedAt     *time.Time
	PairsCount     int
	UnmatchedCount int
	Status         string
	ErrorText      string
	TriggeredBy    *int64
}

type RunLogRepository interface {
	Start(ctx context.Context, runType string, triggeredBy *int64, startedAt time.Time) (RunLog, error)
	Finish(ctx context.Context, id uuid.UUID, status string, pairs, unmatched int, errText string, finishedAt time.Time) error
	ListRecent(ctx context.Context, limit int) ([]RunLog, error)
}

type SQLRunLogRepository struct {
	db database.DB
}

func NewSQLRunLogRepository(db database.DB) *SQLRunLogRepository {
	return &SQLRunLogRepository{db: db}
}

func (r *SQLRunLogRepository) Start(ctx context.Context, runType string, triggeredBy *int64, startedAt time.Time) (RunLog, error) {
	l := RunLog{
		ID:          uuid.New(),
		RunType:     runType,
		StartedAt:   startedAt.UTC(),
		Status:      RunStatusRunning,
		TriggeredBy: triggeredBy,
	}
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO run_logs (id, run_type, started_at, status, triggered_by) VALUES ($1, $2, $3, $4, $5)`,
		l.ID.String(),
		l.RunType,
		l.StartedAt,
		l.Status,
		l.TriggeredBy,
	)
	if err != nil {
		return RunLog{}, err
	}
	return l, nil
}

func (r *SQLRunLogRepository) Finish(ctx context.Context, id uuid.UUID, status string, pairs, unmatched int, errText string, finishedAt time.Time) error {
	var errCol *string
	if errText != "" {
		errCol = &errText
	}
	affected, err := r.db.Exec(
		ctx,
		`UPDATE run_logs SET finished_at = $1, status = $2, pairs_count = $3, unmatched_count = $4, error_text = $5 WHERE id = $6`,
		finishedAt.UTC(),
		status,
		pairs,
		unmatched,
		errCol,
		id.String(),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRunLogRepository) ListRecent(ctx context.Context, limit int) ([]RunLog, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, run_type, started_at, finished_at, pairs_count, unmatched_count, status, COALESCE(error_text, ''), triggered_by
FROM run_logs
ORDER BY started_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RunLog, 0)
	for rows.Next() {
		var l RunLog
		var id string
		if err := rows.Scan(&id, &l.RunType, &l.StartedAt, &l.FinishedAt, &l.PairsCount, &l.UnmatchedCount, &l.Status, &l.ErrorText, &l.TriggeredBy); err != nil {
			return nil, err
		}
		l.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
