package response

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"edu-rag-be/internal/entity"
	"edu-rag-be/pkg/llm"
)

type scriptedProvider struct {
	answer     string
	err        error
	lastPrompt string
}

func (s *scriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(history) > 0 {
		s.lastPrompt = history[len(history)-1].Content
	}
	return s.answer, s.err
}

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func pageFragment(name string, page int, content string) *entity.RetrievedFragment {
	return &entity.RetrievedFragment{
		Chunk: &entity.Chunk{
			Id:      uuid.New(),
			Content: content,
			Metadata: entity.SourceMetadata{
				SourceType: entity.SourceTypePDF,
				SourceName: name,
				Page:       &page,
			},
		},
		Score: 0.9,
	}
}

func TestGenerator_GroundedPromptCarriesSources(t *testing.T) {
	provider := &scriptedProvider{answer: "Photosynthesis turns light into chemical energy."}
	generator := NewGenerator(provider, nil)

	fragments := []*entity.RetrievedFragment{
		pageFragment("biology.pdf", 12, "Photosynthesis converts light into chemical energy."),
	}
	answer := generator.Generate(context.Background(), "What is photosynthesis?", fragments, nil, nil)

	assert.Equal(t, provider.answer, answer)
	assert.Contains(t, provider.lastPrompt, "SOURCE 1:")
	assert.Contains(t, provider.lastPrompt, "biology.pdf")
	assert.Contains(t, provider.lastPrompt, "Page 12")
	assert.Contains(t, provider.lastPrompt, "Photosynthesis converts light into chemical energy.")
}

func TestGenerator_UngroundedPromptListsTopics(t *testing.T) {
	provider := &scriptedProvider{answer: "I can teach you about biology and chemistry."}
	generator := NewGenerator(provider, nil)

	answer := generator.Generate(context.Background(), "what can you teach me?", nil, nil,
		[]string{"biology", "chemistry", "physics"})

	assert.Equal(t, provider.answer, answer)
	assert.Contains(t, provider.lastPrompt, "biology, chemistry, physics")
}

func TestGenerator_UngroundedTopicSampleCapped(t *testing.T) {
	provider := &scriptedProvider{answer: "ok"}
	generator := NewGenerator(provider, nil)

	topics := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	generator.Generate(context.Background(), "hi", nil, nil, topics)

	assert.Contains(t, provider.lastPrompt, "a, b, c, d, e, f")
	assert.NotContains(t, provider.lastPrompt, "g, h")
}

func TestGenerator_GroundedFallbackWhenProvidersExhausted(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("quota exceeded")}
	generator := NewGenerator(provider, nil)

	answer := generator.Generate(context.Background(), "explain cells",
		[]*entity.RetrievedFragment{pageFragment("cells.pdf", 1, "Cells are the basic unit of life.")}, nil, nil)

	assert.Equal(t, groundedFallbackMessage, answer)
}

func TestGenerator_UngroundedFallbackListsTopics(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("rate limit")}
	generator := NewGenerator(provider, nil)

	answer := generator.Generate(context.Background(), "hello", nil, nil, []string{"biology", "chemistry"})

	assert.True(t, strings.Contains(answer, "biology, chemistry"), "fallback should surface the topic catalog, got %q", answer)
}

func TestFormatLocation(t *testing.T) {
	page := 3
	start, end := 30.0, 90.0

	assert.Equal(t, "Page 3", FormatLocation(entity.SourceMetadata{Page: &page}))
	assert.Equal(t, "30s-90s", FormatLocation(entity.SourceMetadata{StartTime: &start, EndTime: &end}))
	assert.Equal(t, "N/A", FormatLocation(entity.SourceMetadata{}))
}
