package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"edu-rag-be/internal/entity"
	"edu-rag-be/internal/repository/contract"
)

// ConversationRepository keeps conversations in process memory with a TTL.
// Each conversation carries its own lock so a history read always observes a
// consistent prefix while another request appends.
type ConversationRepository struct {
	cache *cache.Cache
	ttl   time.Duration

	// Serializes Delete's lookup and removal so only one caller ever sees the
	// entry go away.
	deleteMu sync.Mutex
}

type conversationEntry struct {
	mu           sync.RWMutex
	conversation *entity.Conversation
}

var _ contract.ConversationRepository = &ConversationRepository{}

func NewConversationRepository(ttl time.Duration) *ConversationRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	// Expired entries are also purged by the periodic Sweep; the cache's own
	// janitor is a backstop.
	c := cache.New(ttl, 10*time.Minute)
	return &ConversationRepository{
		cache: c,
		ttl:   ttl,
	}
}

func (r *ConversationRepository) Create(ctx context.Context) (*entity.Conversation, error) {
	now := time.Now()
	conversation := &entity.Conversation{
		Id:        uuid.New(),
		Messages:  []entity.ConversationMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.cache.Set(conversation.Id.String(), &conversationEntry{conversation: conversation}, r.ttl)
	return r.snapshot(conversation), nil
}

func (r *ConversationRepository) Append(ctx context.Context, id uuid.UUID, message entity.ConversationMessage) (uuid.UUID, error) {
	entry, id, err := r.getOrCreate(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	entry.mu.Lock()
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	entry.conversation.Messages = append(entry.conversation.Messages, message)
	entry.conversation.UpdatedAt = time.Now()
	entry.mu.Unlock()

	// Refresh the TTL so active conversations never expire mid-chat.
	r.cache.Set(id.String(), entry, r.ttl)
	return id, nil
}

func (r *ConversationRepository) History(ctx context.Context, id uuid.UUID, limit int) ([]entity.ConversationMessage, error) {
	entry, found := r.get(id)
	if !found {
		return nil, nil
	}

	entry.mu.RLock()
	defer entry.mu.RUnlock()

	messages := entry.conversation.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	history := make([]entity.ConversationMessage, len(messages))
	copy(history, messages)
	return history, nil
}

func (r *ConversationRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	entry, found := r.get(id)
	if !found {
		return nil, nil
	}

	entry.mu.RLock()
	defer entry.mu.RUnlock()
	return r.snapshot(entry.conversation), nil
}

func (r *ConversationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.deleteMu.Lock()
	defer r.deleteMu.Unlock()

	_, found := r.get(id)
	if !found {
		return false, nil
	}
	r.cache.Delete(id.String())
	return true, nil
}

func (r *ConversationRepository) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, item := range r.cache.Items() {
		entry, ok := item.Object.(*conversationEntry)
		if !ok {
			continue
		}
		entry.mu.RLock()
		stale := entry.conversation.UpdatedAt.Before(cutoff)
		entry.mu.RUnlock()
		if stale {
			r.cache.Delete(key)
			removed++
		}
	}
	return removed, nil
}

func (r *ConversationRepository) get(id uuid.UUID) (*conversationEntry, bool) {
	if x, found := r.cache.Get(id.String()); found {
		return x.(*conversationEntry), true
	}
	return nil, false
}

func (r *ConversationRepository) getOrCreate(ctx context.Context, id uuid.UUID) (*conversationEntry, uuid.UUID, error) {
	if id != uuid.Nil {
		if entry, found := r.get(id); found {
			return entry, id, nil
		}
	}
	conversation, err := r.Create(ctx)
	if err != nil {
		return nil, uuid.Nil, err
	}
	entry, _ := r.get(conversation.Id)
	return entry, conversation.Id, nil
}

// snapshot copies the conversation so callers cannot mutate the stored state.
func (r *ConversationRepository) snapshot(conversation *entity.Conversation) *entity.Conversation {
	messages := make([]entity.ConversationMessage, len(conversation.Messages))
	copy(messages, conversation.Messages)
	return &entity.Conversation{
		Id:        conversation.Id,
		Messages:  messages,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
}
