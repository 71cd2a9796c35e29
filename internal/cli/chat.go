package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/momai/momai/internal/domain"
	"github.com/momai/momai/internal/session"
)

func newChatCmd() *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a message, or start an interactive chat when no message is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if identity := a.identity(); identity.Known() {
				a.manager.LoadForIdentity(ctx, identity)
			}
			if conversationID != "" {
				a.manager.SelectConversation(conversationID)
			}

			if len(args) > 0 {
				sendAndPrint(ctx, a.manager, strings.Join(args, " "))
				return nil
			}
			return runChatLoop(ctx, a.manager)
		},
	}

	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "target conversation id (default: active)")
	return cmd
}

// runChatLoop reads lines from stdin until EOF or interrupt.
func runChatLoop(ctx context.Context, mgr *session.Manager) error {
	fmt.Println("Chatting with momAI. Type a message, /new for a fresh conversation, /quit to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/new":
			conv := mgr.CreateConversation(ctx, "")
			fmt.Printf("Started %s\n", conv.Title)
			continue
		}
		sendAndPrint(ctx, mgr, line)
	}
	return scanner.Err()
}

// sendAndPrint issues the send and prints any assistant turns it produced.
func sendAndPrint(ctx context.Context, mgr *session.Manager, text string) {
	before := transcriptLen(mgr)
	mgr.SendMessage(ctx, text)

	conv := mgr.ActiveConversation()
	if conv == nil {
		return
	}
	for _, msg := range conv.Messages[min(before, len(conv.Messages)):] {
		if msg.Role == domain.RoleAssistant {
			fmt.Printf("momAI: %s\n", msg.Text)
		}
	}
}

func transcriptLen(mgr *session.Manager) int {
	if conv := mgr.ActiveConversation(); conv != nil {
		return len(conv.Messages)
	}
	return 0
}
