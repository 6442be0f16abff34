package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"edu-rag-be/internal/entity"
	"edu-rag-be/pkg/llm"
)

// Generator turns a question plus optional retrieved fragments into the
// answer shown to the user. It never returns an error: when every provider
// is down it degrades to a canned message, because a chat surface with a
// stack trace in it is worse than an apology.
type Generator struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewGenerator(provider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger,
	}
}

// Generate picks grounded or ungrounded mode based on whether retrieval
// found anything.
func (g *Generator) Generate(ctx context.Context, question string, fragments []*entity.RetrievedFragment, history []llm.Message, topics []string) string {
	if len(fragments) == 0 {
		return g.ungrounded(ctx, question, history, topics)
	}
	return g.grounded(ctx, question, fragments, history)
}

func (g *Generator) grounded(ctx context.Context, question string, fragments []*entity.RetrievedFragment, history []llm.Message) string {
	var contextBlock strings.Builder
	for i, fragment := range fragments {
		metadata := fragment.Chunk.Metadata
		fmt.Fprintf(&contextBlock, "\nSOURCE %d:\nDocument: %s\nLocation: %s\n\nCONTENT:\n%s\n",
			i+1, sourceName(metadata), FormatLocation(metadata), fragment.Chunk.Content)
	}

	prompt := fmt.Sprintf(`You are an expert educational tutor. Use the following reference materials to answer the student's question:
%s
**INSTRUCTIONS:**
1. Always base your answer strictly on the materials provided
2. If the materials do not cover the question, say so politely and suggest one of the available topics
3. Skip greetings, but if there is prior context, pick the conversation back up
4. Explain the concept in YOUR OWN WORDS, clearly and accessibly
5. Highlight the main points in an organized way
6. Keep the answer concise (3-4 sentences at most)
7. Relate the content to practical examples when possible
8. Separate blocks of sentences with blank lines for readability
9. End with a reflective question or an invitation to explore the topic further

STUDENT'S QUESTION: %s`, contextBlock.String(), question)

	messages := append(historyTail(history), llm.Message{Role: "user", Content: prompt})

	answer, err := g.provider.Chat(ctx, messages,
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(600),
	)
	if err != nil {
		if g.logger != nil {
			g.logger.Printf("[GENERATION] Grounded answer failed, using canned fallback: %v", err)
		}
		return groundedFallbackMessage
	}
	return answer
}

func (g *Generator) ungrounded(ctx context.Context, message string, history []llm.Message, topics []string) string {
	topicsStr := "no topics available"
	if len(topics) > 0 {
		topicsStr = joinTopicSample(topics)
	}

	prompt := fmt.Sprintf(`You are a direct educational assistant.

AVAILABLE TOPICS: %s

Answer the user's message naturally and concisely (2-3 sentences).

If they ask what you can teach, list a few of the main topics.
If it is a greeting, reply briefly; otherwise no greeting is needed.
If they ask about specific content, say you need the relevant materials.

Always end by engaging the user.

USER: %s`, topicsStr, message)

	messages := append(historyTail(history), llm.Message{Role: "user", Content: prompt})

	answer, err := g.provider.Chat(ctx, messages,
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(500),
	)
	if err != nil {
		if g.logger != nil {
			g.logger.Printf("[GENERATION] Ungrounded answer failed, using canned fallback: %v", err)
		}
		return topicFallbackMessage(topics)
	}
	return answer
}

// FormatLocation renders the per-type location of a chunk for prompts and
// source references.
func FormatLocation(metadata entity.SourceMetadata) string {
	switch {
	case metadata.Page != nil:
		return fmt.Sprintf("Page %d", *metadata.Page)
	case metadata.StartTime != nil && metadata.EndTime != nil:
		return fmt.Sprintf("%.0fs-%.0fs", *metadata.StartTime, *metadata.EndTime)
	default:
		return "N/A"
	}
}

func sourceName(metadata entity.SourceMetadata) string {
	if metadata.SourceName == "" {
		return "Unknown"
	}
	return metadata.SourceName
}

func historyTail(history []llm.Message) []llm.Message {
	// Copy so the append in the caller never mutates the caller's slice.
	tail := make([]llm.Message, len(history))
	copy(tail, history)
	return tail
}
