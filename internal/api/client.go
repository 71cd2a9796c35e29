// Package api talks to the remote momAI backend: the conversation endpoints
// the session manager synchronizes against, plus the auth endpoint that
// issues identity markers.
package api

import (
	"context"
	"fmt"

	"github.com/momai/momai/internal/domain"
)

// Client is the remote collaborator contract the session manager depends on.
type Client interface {
	// Login exchanges credentials for an identity marker.
	Login(ctx context.Context, email, password string) (domain.Identity, error)

	// ListConversations returns the caller's conversations in display order,
	// each with its full message history.
	ListConversations(ctx context.Context, identity domain.Identity) ([]domain.Conversation, error)

	// CreateConversation creates a conversation and returns the authoritative
	// record (server-assigned id and title).
	CreateConversation(ctx context.Context, identity domain.Identity, title string) (*domain.Conversation, error)

	// PostMessage submits a user message. The reply is the assistant's
	// message when the backend returns it inline, or nil when the caller
	// must re-fetch the message list to obtain it.
	PostMessage(ctx context.Context, identity domain.Identity, conversationID, text string) (*domain.Message, error)

	// ListMessages returns the full message list for one conversation. Used
	// as the reconciliation fallback when PostMessage omits the reply.
	ListMessages(ctx context.Context, identity domain.Identity, conversationID string) ([]domain.Message, error)
}

// APIError describes a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}
