package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and cache status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			snap := a.manager.Snapshot()
			signedIn := "no"
			if snap.SignedIn {
				signedIn = "yes"
			}
			fmt.Printf("API:           %s\n", a.cfg.API.BaseURL)
			fmt.Printf("Cache:         %s\n", a.cfg.Cache.Store)
			fmt.Printf("Signed in:     %s\n", signedIn)
			fmt.Printf("State:         %s\n", snap.State)
			fmt.Printf("Conversations: %d\n", len(snap.Conversations))
			if snap.ActiveID != "" {
				fmt.Printf("Active:        %s\n", snap.ActiveID)
			}
			return nil
		},
	}
}
