package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and store the identity token locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return fmt.Errorf("--password is required")
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			identity, err := a.auth.SignIn(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			// Pull this account's conversations right away.
			a.manager.LoadForIdentity(cmd.Context(), identity)
			snap := a.manager.Snapshot()
			fmt.Printf("Signed in as %s (%d conversations)\n", args[0], len(snap.Conversations))
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the local conversation cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			a.manager.SignOut()
			fmt.Println("Signed out.")
			return nil
		},
	}
}
