package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"edu-rag-be/internal/dto"
	"edu-rag-be/internal/entity"
	"edu-rag-be/internal/mapper"
	"edu-rag-be/internal/pkg/logger"
	"edu-rag-be/internal/pkg/serverutils"
	"edu-rag-be/internal/repository/contract"
	"edu-rag-be/pkg/llm"
	"edu-rag-be/pkg/rag/response"
	"edu-rag-be/pkg/rag/retrieval"
)

const (
	defaultRetrievalLimit = 5
	historyWindow         = 10
)

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*dto.ConversationResponse, error)
	DeleteConversation(ctx context.Context, id uuid.UUID) (bool, error)
	SweepConversations(ctx context.Context, maxAge time.Duration) (int, error)
}

type chatService struct {
	conversations contract.ConversationRepository
	chunks        contract.ChunkRepository
	engine        *retrieval.Engine
	generator     *response.Generator
	chatMapper    *mapper.ChatMapper
	defaultLimit  int
	logger        logger.ILogger
}

func NewChatService(
	conversations contract.ConversationRepository,
	chunks contract.ChunkRepository,
	engine *retrieval.Engine,
	generator *response.Generator,
	defaultLimit int,
	log logger.ILogger,
) IChatService {
	if defaultLimit <= 0 {
		defaultLimit = defaultRetrievalLimit
	}
	return &chatService{
		conversations: conversations,
		chunks:        chunks,
		engine:        engine,
		generator:     generator,
		chatMapper:    mapper.NewChatMapper(),
		defaultLimit:  defaultLimit,
		logger:        log,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	conversationId, err := s.resolveConversation(ctx, req.ConversationId)
	if err != nil {
		return nil, err
	}

	// History is read before the new turn is appended so the prompt does not
	// carry the question twice.
	history, err := s.conversations.History(ctx, conversationId, historyWindow)
	if err != nil {
		return nil, err
	}

	conversationId, err = s.conversations.Append(ctx, conversationId, entity.ConversationMessage{
		Role:    entity.RoleUser,
		Content: req.Message,
	})
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	fragments, err := s.engine.Search(ctx, req.Message, limit, req.Filter.ToFilter())
	if err != nil {
		return nil, err
	}

	topics := s.availableTopics(ctx)
	answer := s.generator.Generate(ctx, req.Message, fragments, toLLMHistory(history), topics)

	conversationId, err = s.conversations.Append(ctx, conversationId, entity.ConversationMessage{
		Role:    entity.RoleAssistant,
		Content: answer,
		Sources: fragments,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chat", "Answered", map[string]interface{}{
		"conversation_id": conversationId.String(),
		"fragments":       len(fragments),
		"grounded":        len(fragments) > 0,
	})

	return &dto.ChatResponse{
		ConversationId: conversationId,
		Answer:         answer,
		Fragments:      s.chatMapper.ToFragmentDTOs(fragments),
		Documents:      s.chatMapper.ToDocumentRefs(fragments),
	}, nil
}

func (s *chatService) GetConversation(ctx context.Context, id uuid.UUID) (*dto.ConversationResponse, error) {
	conversation, err := s.conversations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, serverutils.NewAppError(fiber.StatusNotFound, "Conversation not found")
	}
	return s.chatMapper.ToConversationResponse(conversation), nil
}

func (s *chatService) DeleteConversation(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.conversations.Delete(ctx, id)
}

func (s *chatService) SweepConversations(ctx context.Context, maxAge time.Duration) (int, error) {
	removed, err := s.conversations.Sweep(ctx, maxAge)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("chat", "Swept idle conversations", map[string]interface{}{
			"removed": removed,
		})
	}
	return removed, nil
}

// resolveConversation returns an existing conversation id or creates a new
// conversation seeded with the assistant welcome message.
func (s *chatService) resolveConversation(ctx context.Context, id *uuid.UUID) (uuid.UUID, error) {
	if id != nil && *id != uuid.Nil {
		conversation, err := s.conversations.Get(ctx, *id)
		if err != nil {
			return uuid.Nil, err
		}
		if conversation != nil {
			return conversation.Id, nil
		}
	}

	conversation, err := s.conversations.Create(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	_, err = s.conversations.Append(ctx, conversation.Id, entity.ConversationMessage{
		Role:    entity.RoleAssistant,
		Content: response.WelcomeMessage,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return conversation.Id, nil
}

// availableTopics feeds the ungrounded prompt. Failing to load them only
// degrades the canned fallback, so errors are logged and swallowed.
func (s *chatService) availableTopics(ctx context.Context) []string {
	summaries, err := s.chunks.AvailableTopics(ctx)
	if err != nil {
		s.logger.Warn("chat", "Failed to load topic catalog", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	topics := make([]string, len(summaries))
	for i, summary := range summaries {
		topics[i] = summary.Topic
	}
	return topics
}

func toLLMHistory(messages []entity.ConversationMessage) []llm.Message {
	history := make([]llm.Message, len(messages))
	for i, message := range messages {
		history[i] = llm.Message{
			Role:    string(message.Role),
			Content: message.Content,
		}
	}
	return history
}
