package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"edu-rag-be/internal/entity"
	"edu-rag-be/internal/repository/contract"
)

const keyPrefix = "conversation:"

// ConversationRepository stores each conversation as one JSON value with a
// TTL. Redis handles expiry on its own, so Sweep only needs to catch
// conversations whose UpdatedAt went stale before their key TTL did.
type ConversationRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contract.ConversationRepository = &ConversationRepository{}

func NewConversationRepository(client *redis.Client, ttl time.Duration) *ConversationRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ConversationRepository{
		client: client,
		ttl:    ttl,
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
	if err := r.save(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (r *ConversationRepository) Append(ctx context.Context, id uuid.UUID, message entity.ConversationMessage) (uuid.UUID, error) {
	conversation, err := r.load(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if conversation == nil {
		conversation, err = r.Create(ctx)
		if err != nil {
			return uuid.Nil, err
		}
	}

	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	conversation.Messages = append(conversation.Messages, message)
	conversation.UpdatedAt = time.Now()

	if err := r.save(ctx, conversation); err != nil {
		return uuid.Nil, err
	}
	return conversation.Id, nil
}

func (r *ConversationRepository) History(ctx context.Context, id uuid.UUID, limit int) ([]entity.ConversationMessage, error) {
	conversation, err := r.load(ctx, id)
	if err != nil || conversation == nil {
		return nil, err
	}
	messages := conversation.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (r *ConversationRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	return r.load(ctx, id)
}

func (r *ConversationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	removed, err := r.client.Del(ctx, key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("delete conversation: %w", err)
	}
	return removed > 0, nil
}

func (r *ConversationRepository) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return removed, fmt.Errorf("sweep read: %w", err)
		}
		var conversation entity.Conversation
		if err := json.Unmarshal(raw, &conversation); err != nil {
			continue
		}
		if conversation.UpdatedAt.Before(cutoff) {
			if err := r.client.Del(ctx, iter.Val()).Err(); err == nil {
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("sweep scan: %w", err)
	}
	return removed, nil
}

func (r *ConversationRepository) save(ctx context.Context, conversation *entity.Conversation) error {
	raw, err := json.Marshal(conversation)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	if err := r.client.Set(ctx, key(conversation.Id), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

func (r *ConversationRepository) load(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	raw, err := r.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	var conversation entity.Conversation
	if err := json.Unmarshal(raw, &conversation); err != nil {
		return nil, fmt.Errorf("unmarshal conversation: %w", err)
	}
	return &conversation, nil
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}
