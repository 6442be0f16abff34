package entity

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole distinguishes who authored a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ConversationMessage is a single turn. Sources is only ever set on
// assistant turns; user turns never carry sources.
type ConversationMessage struct {
	Role      MessageRole
	Content   string
	Sources   []*RetrievedFragment
	Timestamp time.Time
}

// Conversation is an ordered, append-only message history. UpdatedAt moves
// forward on every append and drives the TTL sweep.
type Conversation struct {
	Id        uuid.UUID
	Messages  []ConversationMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
