package domain

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DeliveryState tracks a message through the optimistic-update lifecycle.
type DeliveryState string

const (
	// StatePending marks a locally appended message awaiting remote confirmation.
	StatePending DeliveryState = "pending"
	// StateConfirmed marks a message acknowledged by (or received from) the remote API.
	StateConfirmed DeliveryState = "confirmed"
	// StateFailed marks a message whose send did not complete. The message stays
	// in the transcript; resending is an explicit user action.
	StateFailed DeliveryState = "failed"
)

// Message is a single turn in a conversation.
type Message struct {
	ID        string        `json:"id"`
	Role      Role          `json:"role"`
	Text      string        `json:"text"`
	State     DeliveryState `json:"state,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// IsAssistant reports whether the message was authored by the assistant.
func (m Message) IsAssistant() bool { return m.Role == RoleAssistant }
