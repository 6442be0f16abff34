package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"edu-rag-be/internal/entity"
)

type ConversationRepository interface {
	Create(ctx context.Context) (*entity.Conversation, error)
	// Append adds a message, transparently creating the conversation when the
	// id is unknown or zero. The returned id is the one actually written to.
	Append(ctx context.Context, id uuid.UUID, message entity.ConversationMessage) (uuid.UUID, error)
	// History returns the last limit messages in original order.
	History(ctx context.Context, id uuid.UUID, limit int) ([]entity.ConversationMessage, error)
	// Get returns nil without error when the conversation does not exist.
	Get(ctx context.Context, id uuid.UUID) (*entity.Conversation, error)
	// Delete reports whether anything was actually removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// Sweep drops conversations idle for longer than maxAge and returns how
	// many were removed.
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}
