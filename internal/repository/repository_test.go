package repository

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"random-coffee/internal/database"
	"random-coffee/internal/database/dbtest"
	"random-coffee/internal/domain/pairing"
	"random-coffee/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRow struct {
	id         int64
	name       string
	email      string
	mode       string
	subscribed bool
	status     string
	segment    string
}

func insertUsers(t *testing.T, db database.DB, users ...userRow) {
	t.Helper()
	for _, u := range users {
		var email, mode, segment any
		if u.email != "" {
			email = u.email
		}
		if u.mode != "" {
			mode = u.mode
		} else {
			mode = string(pairing.ModeBoth)
		}
		if u.segment != "" {
			segment = u.segment
		}
		_, err := db.Exec(
			context.Background(),
			`INSERT INTO users (user_id, full_name, email, communication_mode, subscribed, status, segment) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			u.id, u.name, email, mode, u.subscribed, u.status, segment,
		)
		require.NoError(t, err)
	}
}

func TestCandidateRepository_ListEligible(t *testing.T) {
	db := dbtest.NewSQLite(t)
	insertUsers(t, db,
		userRow{id: 3, name: "Cat", email: "cat@example.com", subscribed: true, status: "approved", mode: "telegram_only"},
		userRow{id: 1, name: "Ann", subscribed: true, status: "approved"},
		userRow{id: 2, name: "Ben", subscribed: false, status: "approved"},
		userRow{id: 4, name: "Dan", subscribed: true, status: "pending"},
	)

	got, err := NewSQLCandidateRepository(db).ListEligible(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1), got[0].UserID)
	assert.Equal(t, "", got[0].Email)
	assert.False(t, got[0].HasEmail())
	assert.Equal(t, pairing.ModeBoth, got[0].Mode)

	assert.Equal(t, int64(3), got[1].UserID)
	assert.Equal(t, "cat@example.com", got[1].Email)
	assert.Equal(t, pairing.ModeTelegramOnly, got[1].Mode)
}

func TestPairingRepository_HistoryIsSymmetric(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	repo := NewSQLPairingRepository(db)
	now := time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	pairs := []pairing.Pair{{A: pairing.Candidate{UserID: 9}, B: pairing.Candidate{UserID: 4}}}
	require.NoError(t, repo.Persist(ctx, pairs, now.Add(-7*24*time.Hour), time.UTC))

	ab, err := repo.WasRecentlyPaired(ctx, 4, 9, 4)
	require.NoError(t, err)
	ba, err := repo.WasRecentlyPaired(ctx, 9, 4, 4)
	require.NoError(t, err)
	assert.True(t, ab)
	assert.Equal(t, ab, ba)

	last, ok, err := repo.LastMatchedAt(ctx, 9, 4)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, last.Equal(now.Add(-7*24*time.Hour)))

	_, ok, err = repo.LastMatchedAt(ctx, 4, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPairingRepository_LookbackWindow(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	repo := NewSQLPairingRepository(db)
	now := time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	pairs := []pairing.Pair{{A: pairing.Candidate{UserID: 1}, B: pairing.Candidate{UserID: 2}}}
	require.NoError(t, repo.Persist(ctx, pairs, now.Add(-3*7*24*time.Hour), time.UTC))

	recent, err := repo.WasRecentlyPaired(ctx, 1, 2, 4)
	require.NoError(t, err)
	assert.True(t, recent)

	recent, err = repo.WasRecentlyPaired(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.False(t, recent)

	recent, err = repo.WasRecentlyPaired(ctx, 1, 2, 0)
	require.NoError(t, err)
	assert.False(t, recent)
}

func TestPairingRepository_PersistIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	repo := NewSQLPairingRepository(db)

	first := time.Date(2024, time.June, 11, 9, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)
	pairs := []pairing.Pair{{A: pairing.Candidate{UserID: 2}, B: pairing.Candidate{UserID: 1}}}

	require.NoError(t, repo.Persist(ctx, pairs, first, time.UTC))
	require.NoError(t, repo.Persist(ctx, pairs, second, time.UTC))

	var records, snapshots int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM pairings`).Scan(&records))
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM weekly_matches`).Scan(&snapshots))
	assert.Equal(t, 1, records)
	assert.Equal(t, 1, snapshots)

	last, ok, err := repo.LastMatchedAt(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, last.Equal(second))

	keys, err := repo.WeeklySnapshot(ctx, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []pairing.Key{{Low: 1, High: 2}}, keys)
}

func TestPairingRepository_PersistGroupsByLocalWeek(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	repo := NewSQLPairingRepository(db)
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)

	// Sunday 23:30 UTC is Monday in Amsterdam.
	now := time.Date(2024, time.June, 9, 23, 30, 0, 0, time.UTC)
	pairs := []pairing.Pair{{A: pairing.Candidate{UserID: 1}, B: pairing.Candidate{UserID: 2}}}
	require.NoError(t, repo.Persist(ctx, pairs, now, loc))

	keys, err := repo.WeeklySnapshot(ctx, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	keys, err = repo.WeeklySnapshot(ctx, time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestPairingRepository_PersistRollsBackBatch(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	repo := NewSQLPairingRepository(db)

	pairs := []pairing.Pair{
		{A: pairing.Candidate{UserID: 1}, B: pairing.Candidate{UserID: 2}},
		{A: pairing.Candidate{UserID: 5}, B: pairing.Candidate{UserID: 5}},
	}
	err := repo.Persist(ctx, pairs, time.Now(), time.UTC)
	require.Error(t, err)

	var records, snapshots int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM pairings`).Scan(&records))
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM weekly_matches`).Scan(&snapshots))
	assert.Equal(t, 0, records)
	assert.Equal(t, 0, snapshots)
}

func TestPairingRepository_PersistEmptyIsNoop(t *testing.T) {
	require.NoError(t, NewSQLPairingRepository(nil).Persist(context.Background(), nil, time.Now(), time.UTC))
}

func TestEmailTemplateRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	repo := NewSQLEmailTemplateRepository(db)
	created := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	_, err := db.Exec(ctx,
		`INSERT INTO email_templates (name, subject, html_body, variables, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5)`,
		"random_coffee", "Hi {{user_name}}", "<p>{{match_name}}</p>", "user_name, match_name", created,
	)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"user_name", "match_name"}, list[0].Variables)
	assert.Equal(t, "", list[0].TextBody)

	subject := "Hello {{user_name}}"
	repo.now = func() time.Time { return created.Add(time.Hour) }
	updated, err := repo.Update(ctx, list[0].ID, EmailTemplatePatch{Subject: &subject})
	require.NoError(t, err)
	assert.Equal(t, subject, updated.Subject)
	assert.Equal(t, "<p>{{match_name}}</p>", updated.HTMLBody)
	assert.True(t, updated.UpdatedAt.Equal(created.Add(time.Hour)))

	_, err = repo.Update(ctx, 999, EmailTemplatePatch{Subject: &subject})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	tpl, err := repo.FindTemplate(ctx, "random_coffee")
	require.NoError(t, err)
	assert.Equal(t, subject, tpl.Subject)

	_, err = repo.FindTemplate(ctx, "mentorship")
	assert.ErrorIs(t, err, notification.ErrTemplateNotFound)
}

func TestRunLogRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	repo := NewSQLRunLogRepository(db)
	t0 := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	admin := int64(42)

	first, err := repo.Start(ctx, RunTypeScheduled, nil, t0)
	require.NoError(t, err)
	require.NoError(t, repo.Finish(ctx, first.ID, RunStatusOK, 3, 1, "", t0.Add(time.Second)))

	second, err := repo.Start(ctx, RunTypeManual, &admin, t0.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Finish(ctx, second.ID, RunStatusFailed, 0, 0, "db down", t0.Add(time.Hour+time.Second)))

	assert.ErrorIs(t, repo.Finish(ctx, uuid.New(), RunStatusOK, 0, 0, "", t0), ErrNotFound)

	logs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, second.ID, logs[0].ID)
	assert.Equal(t, RunStatusFailed, logs[0].Status)
	assert.Equal(t, "db down", logs[0].ErrorText)
	require.NotNil(t, logs[0].TriggeredBy)
	assert.Equal(t, admin, *logs[0].TriggeredBy)

	assert.Equal(t, first.ID, logs[1].ID)
	assert.Equal(t, 3, logs[1].PairsCount)
	assert.Equal(t, 1, logs[1].UnmatchedCount)
	assert.Nil(t, logs[1].TriggeredBy)
	require.NotNil(t, logs[1].FinishedAt)
	assert.True(t, logs[1].FinishedAt.Equal(t0.Add(time.Second)))

	limited, err := repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSettingsRepository_DefaultsAndUpdates(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	repo := NewSQLSettingsRepository(db)

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultScheduleTime, s.ScheduleTime)
	assert.Empty(t, s.ScheduleDays)
	assert.Nil(t, s.LastRunAt)

	at := time.Date(2024, time.June, 10, 7, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastRun(ctx, at))
	require.NoError(t, repo.UpdateSchedule(ctx, []string{"mon", "thu"}, "10:30"))

	s, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"mon", "thu"}, s.ScheduleDays)
	assert.Equal(t, "10:30", s.ScheduleTime)
	require.NotNil(t, s.LastRunAt)
	assert.True(t, s.LastRunAt.Equal(at))
}

func TestStatsRepository_Get(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewSQLite(t)
	insertUsers(t, db,
		userRow{id: 1, name: "Ann", subscribed: true, status: "approved", segment: "PhD"},
		userRow{id: 2, name: "Ben", subscribed: true, status: "pending", segment: "PhD"},
		userRow{id: 3, name: "Cat", subscribed: false, status: "approved", segment: "Industry"},
	)
	now := time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC)
	pairs := []pairing.Pair{{A: pairing.Candidate{UserID: 1}, B: pairing.Candidate{UserID: 2}}}
	require.NoError(t, NewSQLPairingRepository(db).Persist(ctx, pairs, now, time.UTC))

	s, err := NewSQLStatsRepository(db).Get(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalUsers)
	assert.Equal(t, 2, s.Subscribed)
	assert.Equal(t, 1, s.Eligible)
	assert.Equal(t, 1, s.PendingApprovals)
	assert.Equal(t, 1, s.RecentPairs)
	assert.Equal(t, []SegmentCount{{Name: "PhD", Count: 2}, {Name: "Industry", Count: 1}}, s.Segments)
}
