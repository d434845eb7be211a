package cli

import (
	"fmt"
	"io"

	"random-coffee/internal/app"
	"random-coffee/internal/usecase"

	"github.com/spf13/cobra"
)

func newRunCommand(opts *RootOptions) *cobra.Command {
	var adminID int64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one matching round now",
		Long: `Run one matching round now, subject to the same cooldown and lock as the
admin API. With --admin-id the run is recorded as manual, otherwise as
scheduled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return err
			}
			c, err := app.NewContainer(cfg, opts.logger(cmd))
			if err != nil {
				return err
			}
			defer c.Close()

			var out usecase.RunOutcome
			if adminID != 0 {
				out, err = c.Trigger.RunManual(cmd.Context(), adminID)
			} else {
				out, err = c.Trigger.RunScheduled(cmd.Context())
			}
			if err != nil {
				return err
			}

			rep := out.Result.Notifications
			summary := map[string]any{
				"run_id":        out.RunID,
				"pairs":         len(out.Result.Pairs),
				"unmatched":     len(out.Result.Unmatched),
				"notifications": rep,
			}
			return opts.print(cmd, summary, func(w io.Writer) {
				fmt.Fprintf(w, "run %s: %d pairs, %d unmatched\n", out.RunID, len(out.Result.Pairs), len(out.Result.Unmatched))
				fmt.Fprintf(w, "chat sent=%d failed=%d, email sent=%d failed=%d, skipped=%d\n",
					rep.ChatSent, rep.ChatFailed, rep.EmailSent, rep.EmailFailed, rep.Skipped)
			})
		},
	}
	cmd.Flags().Int64Var(&adminID, "admin-id", 0, "record the run as manual, triggered by this admin")
	return cmd
}
