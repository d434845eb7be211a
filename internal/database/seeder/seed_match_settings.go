package seeder

import (
	"context"

	"random-coffee/internal/database"
)

// MatchSettingsSeeder creates the singleton schedule row with no days selected,
// so nothing runs on a schedule until an admin configures it.
type MatchSettingsSeeder struct{}

func (MatchSettingsSeeder) Name() string { return "match_settings" }

func (MatchSettingsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "match_settings", "id", "schedule_days", "schedule_time", "last_run_at"); err != nil {
		return err
	}

	_, err := db.Exec(
		ctx,
		`INSERT INTO match_settings (id, schedule_days, schedule_time) VALUES (1, $1, $2) ON CONFLICT (id) DO NOTHING`,
		"",
		"09:00",
	)
	return err
}
