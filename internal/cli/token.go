package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"random-coffee/internal/pkg/jwt"
	ucauth "random-coffee/internal/usecase/auth"

	"github.com/spf13/cobra"
)

func newTokenCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage admin credentials",
	}
	cmd.AddCommand(newTokenIssueCommand(opts))
	cmd.AddCommand(newTokenHashKeyCommand(opts))
	return cmd
}

func newTokenIssueCommand(opts *RootOptions) *cobra.Command {
	var adminID int64
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign an access token for an allowlisted admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return err
			}
			if !cfg.Admin.IsAdmin(adminID) {
				return fmt.Errorf("admin %d is not in ADMIN_IDS", adminID)
			}

			tok, exp, err := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn).GenerateAccessToken(adminID)
			if err != nil {
				return err
			}
			return opts.print(cmd, map[string]any{"access_token": tok, "expires_at": exp}, func(w io.Writer) {
				fmt.Fprintln(w, tok)
				fmt.Fprintf(w, "expires %s\n", exp.Format(time.RFC3339))
			})
		},
	}
	cmd.Flags().Int64Var(&adminID, "admin-id", 0, "admin id to issue the token for")
	_ = cmd.MarkFlagRequired("admin-id")
	return cmd
}

func newTokenHashKeyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key <api-key>",
		Short: "Print the bcrypt hash to put in ADMIN_API_KEY_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := ucauth.HashAPIKey(args[0])
			if err != nil {
				return errors.New("api key must not be empty")
			}
			return opts.print(cmd, map[string]string{"hash": hash}, func(w io.Writer) {
				fmt.Fprintln(w, hash)
			})
		},
	}
}
