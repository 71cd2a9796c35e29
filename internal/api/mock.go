package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/momai/momai/internal/domain"
)

// MockClient is a test double for Client.
type MockClient struct {
	LoginFunc              func(ctx context.Context, email, password string) (domain.Identity, error)
	ListConversationsFunc  func(ctx context.Context, identity domain.Identity) ([]domain.Conversation, error)
	CreateConversationFunc func(ctx context.Context, identity domain.Identity, title string) (*domain.Conversation, error)
	PostMessageFunc        func(ctx context.Context, identity domain.Identity, conversationID, text string) (*domain.Message, error)
	ListMessagesFunc       func(ctx context.Context, identity domain.Identity, conversationID string) ([]domain.Message, error)
}

func (m *MockClient) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return domain.Identity{AccountID: "mock", Token: "mock-token"}, nil
}

func (m *MockClient) ListConversations(ctx context.Context, identity domain.Identity) ([]domain.Conversation, error) {
	if m.ListConversationsFunc != nil {
		return m.ListConversationsFunc(ctx, identity)
	}
	return nil, nil
}

func (m *MockClient) CreateConversation(ctx context.Context, identity domain.Identity, title string) (*domain.Conversation, error) {
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(ctx, identity, title)
	}
	return &domain.Conversation{ID: "mock-" + uuid.New().String(), Title: title}, nil
}

func (m *MockClient) PostMessage(ctx context.Context, identity domain.Identity, conversationID, text string) (*domain.Message, error) {
	if m.PostMessageFunc != nil {
		return m.PostMessageFunc(ctx, identity, conversationID, text)
	}
	return &domain.Message{ID: "mock-reply", Role: domain.RoleAssistant, Text: "mock reply", State: domain.StateConfirmed}, nil
}

func (m *MockClient) ListMessages(ctx context.Context, identity domain.Identity, conversationID string) ([]domain.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, identity, conversationID)
	}
	return nil, nil
}
