package repository

import (
	"context"

	"random-coffee/internal/database"
	"random-coffee/internal/domain/pairing"
)

type CandidateRepository interface {
	ListEligible(ctx context.Context) ([]pairing.Candidate, error)
}

type SQLCandidateRepository struct {
	db database.DB
}

func NewSQLCandidateRepository(db database.DB) *SQLCandidateRepository {
	return &SQLCandidateRepository{db: db}
}

// ListEligible returns every subscribed, approved user. Rows are ordered by id;
// the matching engine shuffles them.
func (r *SQLCandidateRepository) ListEligible(ctx context.Context) ([]pairing.Candidate, error) {
	rows, err := r.db.Query(ctx, `
SELECT
	user_id,
	COALESCE(username, ''),
	COALESCE(full_name, ''),
	COALESCE(email, ''),
	COALESCE(segment, ''),
	COALESCE(affiliation, ''),
	COALESCE(about, ''),
	COALESCE(communication_mode, '')
FROM users
WHERE subscribed = TRUE
	AND status = 'approved'
ORDER BY user_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pairing.Candidate, 0)
	for rows.Next() {
		var c pairing.Candidate
		var mode string
		if err := rows.Scan(&c.UserID, &c.Username, &c.FullName, &c.Email, &c.Segment, &c.Affiliation, &c.About, &mode); err != nil {
			return nil, err
		}
		c.Mode = pairing.ParseMode(mode)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
