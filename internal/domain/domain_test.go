package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConversation_LastMessage(t *testing.T) {
	c := &Conversation{ID: "c1", Title: "Conversation 1"}
	assert.Nil(t, c.LastMessage())

	c.Messages = append(c.Messages,
		Message{ID: "m1", Role: RoleUser, Text: "hello"},
		Message{ID: "m2", Role: RoleAssistant, Text: "hi there"},
	)
	last := c.LastMessage()
	assert.Equal(t, "m2", last.ID)
	assert.True(t, last.IsAssistant())
}

func TestConversation_Clone_Independent(t *testing.T) {
	c := &Conversation{
		ID:       "c1",
		Title:    "Conversation 1",
		Messages: []Message{{ID: "m1", Role: RoleUser, Text: "hello", CreatedAt: time.Now()}},
	}

	clone := c.Clone()
	clone.Messages[0].Text = "mutated"
	clone.Messages = append(clone.Messages, Message{ID: "m2"})

	assert.Equal(t, "hello", c.Messages[0].Text)
	assert.Len(t, c.Messages, 1)
}

func TestIdentity_Known(t *testing.T) {
	assert.False(t, Identity{}.Known())
	assert.False(t, Identity{AccountID: "acct-1"}.Known())
	assert.True(t, Identity{AccountID: "acct-1", Token: "tok"}.Known())
}

func TestIdentity_Equal(t *testing.T) {
	a := Identity{AccountID: "acct-1", Token: "tok"}
	assert.True(t, a.Equal(Identity{AccountID: "acct-1", Token: "tok"}))
	assert.False(t, a.Equal(Identity{AccountID: "acct-2", Token: "tok"}))
	assert.False(t, a.Equal(Identity{AccountID: "acct-1", Token: "other"}))
}
