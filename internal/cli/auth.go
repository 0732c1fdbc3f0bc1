package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <phone>",
		Short: "Authenticate with a phone number and one-time passcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phone := strings.TrimSpace(args[0])
			ctx := cmd.Context()

			if err := app.Session.RequestOTP(ctx, phone); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OTP sent to %s\n", phone)

			fmt.Fprint(cmd.OutOrStdout(), "Enter OTP: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read OTP: %w", err)
			}

			if err := app.Session.VerifyOTP(ctx, phone, strings.TrimSpace(code)); err != nil {
				return err
			}

			sess := app.Session.Session()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.Phone, sess.Role)
			return nil
		},
	}
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Local clearing is unconditional; a failed server call only
			// means the cookie dies by expiry instead.
			if err := app.Session.Logout(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Server logout failed; local session cleared")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Session.Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			sess := app.Session.Session()
			fmt.Fprintf(cmd.OutOrStdout(), "Subject: %s\nPhone:   %s\nRole:    %s\n", sess.SubjectID, sess.Phone, sess.Role)
			if !sess.ExpiresAt.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "Expires: %s\n", sess.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
			}
			return nil
		},
	}
}
