package cli

import (
	"context"
	"fmt"
	"io"

	"random-coffee/internal/app"
	"random-coffee/internal/database"
	"random-coffee/internal/database/migration"
	"random-coffee/internal/database/seeder"
	"random-coffee/internal/repository"

	"github.com/spf13/cobra"
)

func (o *RootOptions) openDB(ctx context.Context) (database.DB, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, err
	}
	return app.OpenDB(ctx, cfg.Database)
}

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			r := migration.Runner{Dialect: db.Driver()}
			migs, err := r.Load()
			if err != nil {
				return err
			}
			if err := r.Run(cmd.Context(), db.SQLDB()); err != nil {
				return err
			}
			return opts.print(cmd, map[string]any{"driver": db.Driver(), "migrations": len(migs)}, func(w io.Writer) {
				fmt.Fprintf(w, "migrations up to date (%s, %d known)\n", db.Driver(), len(migs))
			})
		},
	}
}

func newSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert default settings and email templates when missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			seeders := seeder.Defaults()
			if err := (seeder.Runner{Seeders: seeders}).Run(cmd.Context(), db); err != nil {
				return err
			}
			names := make([]string, 0, len(seeders))
			for _, s := range seeders {
				names = append(names, s.Name())
			}
			return opts.print(cmd, map[string]any{"seeded": names}, func(w io.Writer) {
				for _, n := range names {
					fmt.Fprintf(w, "seeded %s\n", n)
				}
			})
		},
	}
}

func newHistoryCommand(opts *RootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent matching runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if limit <= 0 {
				limit = 20
			}
			logs, err := repository.NewSQLRunLogRepository(db).ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return opts.print(cmd, logs, func(w io.Writer) {
				if len(logs) == 0 {
					fmt.Fprintln(w, "no runs recorded")
					return
				}
				for _, l := range logs {
					line := fmt.Sprintf("%s  %-9s  %-7s  pairs=%d unmatched=%d",
						l.StartedAt.Format("2006-01-02 15:04"), l.RunType, l.Status, l.PairsCount, l.UnmatchedCount)
					if l.ErrorText != "" {
						line += "  error=" + l.ErrorText
					}
					fmt.Fprintln(w, line)
				}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}
