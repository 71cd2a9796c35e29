package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/momai/momai/internal/domain"
)

func newConversationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv"},
		Short:   "Manage conversation history",
	}

	cmd.AddCommand(newConversationsListCmd())
	cmd.AddCommand(newConversationsNewCmd())
	cmd.AddCommand(newConversationsSelectCmd())
	cmd.AddCommand(newConversationsRemoveCmd())
	cmd.AddCommand(newConversationsShowCmd())
	return cmd
}

func newConversationsListCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			if refresh {
				if identity := a.identity(); identity.Known() {
					a.manager.LoadForIdentity(cmd.Context(), identity)
				}
			}

			snap := a.manager.Snapshot()
			if len(snap.Conversations) == 0 {
				fmt.Println("No conversations yet. Start one with `momai chat`.")
				return nil
			}
			for _, conv := range snap.Conversations {
				marker := " "
				if conv.ID == snap.ActiveID {
					marker = "*"
				}
				fmt.Printf("%s %-36s  %-30s  %d messages\n", marker, conv.ID, conv.Title, len(conv.Messages))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch the latest list from the server first")
	return cmd
}

func newConversationsNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new [title]",
		Short: "Create a conversation and make it active",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			conv := a.manager.CreateConversation(cmd.Context(), strings.Join(args, " "))
			fmt.Printf("Created %s (%s)\n", conv.Title, conv.ID)
			return nil
		},
	}
}

func newConversationsSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Make a conversation active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			a.manager.SelectConversation(args[0])
			if a.manager.Snapshot().ActiveID != args[0] {
				return fmt.Errorf("no conversation %q", args[0])
			}
			return nil
		},
	}
}

func newConversationsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a conversation from local history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			a.manager.RemoveConversation(args[0])
			return nil
		},
	}
}

func newConversationsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print a conversation transcript (default: active)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			if len(args) == 1 {
				a.manager.SelectConversation(args[0])
			}
			conv := a.manager.ActiveConversation()
			if conv == nil {
				fmt.Println("No active conversation.")
				return nil
			}

			fmt.Printf("%s (%s)\n", conv.Title, conv.ID)
			for _, msg := range conv.Messages {
				who := "You"
				if msg.Role == domain.RoleAssistant {
					who = "momAI"
				}
				suffix := ""
				if msg.State == domain.StateFailed {
					suffix = " [not delivered]"
				}
				fmt.Printf("%s: %s%s\n", who, msg.Text, suffix)
			}
			return nil
		},
	}
}
