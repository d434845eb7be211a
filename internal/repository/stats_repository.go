package repository

import (
	"context"
	"time"

	"random-coffee/internal/database"
)

type SegmentCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Stats struct {
	TotalUsers       int            `json:"total_users"`
	Subscribed       int            `json:"subscribed"`
	Eligible         int            `json:"eligible"`
	PendingApprovals int            `json:"pending_approvals"`
	RecentPairs      int            `json:"recent_pairs"`
	Segments         []SegmentCount `json:"segments"`
}

type StatsRepository interface {
	Get(ctx context.Context, pairsSince time.Time) (Stats, error)
}

type SQLStatsRepository struct {
	db database.DB
}

func NewSQLStatsRepository(db database.DB) *SQLStatsRepository {
	return &SQLStatsRepository{db: db}
}

func (r *SQLStatsRepository) Get(ctx context.Context, pairsSince time.Time) (Stats, error) {
	var s Stats
	err := r.db.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM users),
	(SELECT COUNT(*) FROM users WHERE subscribed = TRUE),
	(SELECT COUNT(*) FROM users WHERE subscribed = TRUE AND status = 'approved'),
	(SELECT COUNT(*) FROM users WHERE status = 'pending'),
	(SELECT COUNT(*) FROM pairings WHERE last_matched_at >= $1)`,
		pairsSince.UTC(),
	).Scan(&s.TotalUsers, &s.Subscribed, &s.Eligible, &s.PendingApprovals, &s.RecentPairs)
	if err != nil {
		return Stats{}, err
	}

	rows, err := r.db.Query(ctx, `
SELECT segment, COUNT(*) AS n
FROM users
WHERE segment IS NOT NULL AND segment <> ''
GROUP BY segment
ORDER BY n DESC, segment ASC`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	s.Segments = make([]SegmentCount, 0)
	for rows.Next() {
		var c SegmentCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return Stats{}, err
		}
		s.Segments = append(s.Segments, c)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}
	return s, nil
}
