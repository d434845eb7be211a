package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"random-coffee/internal/database"
	"random-coffee/internal/domain/pairing"
)

type PairingRepository interface {
	LastMatchedAt(ctx context.Context, a, b int64) (time.Time, bool, error)
	WasRecentlyPaired(ctx context.Context, a, b int64, lookbackWeeks int) (bool, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	Persist(ctx context.Context, pairs []pairing.Pair, now time.Time, loc *time.Location) error
	WeeklySnapshot(ctx context.Context, weekDate time.Time) ([]pairing.Key, error)
}

type SQLPairingRepository struct {
	db  database.DB
	now func() time.Time
}

func NewSQLPairingRepository(db database.DB) *SQLPairingRepository {
	return &SQLPairingRepository{db: db, now: time.Now}
}

// LastMatchedAt looks up the pair in canonical order, so (a, b) and (b, a)
// always read the same record.
func (r *SQLPairingRepository) LastMatchedAt(ctx context.Context, a, b int64) (time.Time, bool, error) {
	k := pairing.Canonical(a, b)
	var last time.Time
	err := r.db.QueryRow(
		ctx,
		`SELECT last_matched_at FROM pairings WHERE user_a = $1 AND user_b = $2`,
		k.Low,
		k.High,
	).Scan(&last)
	if errors.Is(err, database.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return last.UTC(), true, nil
}

func (r *SQLPairingRepository) WasRecentlyPaired(ctx context.Context, a, b int64, lookbackWeeks int) (bool, error) {
	if lookbackWeeks <= 0 {
		return false, nil
	}
	last, ok, err := r.LastMatchedAt(ctx, a, b)
	if err != nil || !ok {
		return false, err
	}
	return pairing.RecentlyPaired(last, r.now().UTC(), lookbackWeeks), nil
}

func (r *SQLPairingRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pairings WHERE last_matched_at >= $1`, since.UTC()).Scan(&n)
	return n, err
}

// Persist records a run's pairs in one transaction: each pairing's
// last_matched_at is set to now and a weekly snapshot row is added for the
// Monday of now's week in loc. Any failure rolls the whole batch back.
func (r *SQLPairingRepository) Persist(ctx context.Context, pairs []pairing.Pair, now time.Time, loc *time.Location) error {
	if len(pairs) == 0 {
		return nil
	}
	now = now.UTC()
	week := pairing.WeekDate(now, loc)

	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for _, p := range pairs {
			k := p.Key()
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO pairings (user_a, user_b, last_matched_at) VALUES ($1, $2, $3)
				 ON CONFLICT (user_a, user_b) DO UPDATE SET last_matched_at = EXCLUDED.last_matched_at`,
				k.Low,
				k.High,
				now,
			); err != nil {
				return fmt.Errorf("upsert pairing %d-%d: %w", k.Low, k.High, err)
			}

			if _, err := tx.Exec(
				ctx,
				`INSERT INTO weekly_matches (week_date, user_a, user_b, created_at) VALUES ($1, $2, $3, $4)
				 ON CONFLICT DO NOTHING`,
				week,
				k.Low,
				k.High,
				now,
			); err != nil {
				return fmt.Errorf("insert weekly match %d-%d: %w", k.Low, k.High, err)
			}
		}
		return nil
	})
}

func (r *SQLPairingRepository) WeeklySnapshot(ctx context.Context, weekDate time.Time) ([]pairing.Key, error) {
	y, m, d := weekDate.Date()
	rows, err := r.db.Query(
		ctx,
		`SELECT user_a, user_b FROM weekly_matches WHERE week_date = $1 ORDER BY user_a, user_b`,
		time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pairing.Key, 0)
	for rows.Next() {
		var k pairing.Key
		if err := rows.Scan(&k.Low, &k.High); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
