package enrich

import (
	"context"
	"fmt"
	"strings"

	"edu-rag-be/internal/entity"
	"edu-rag-be/pkg/llm"
)

const (
	maxTags       = 7
	maxTagLength  = 30
	tagSampleSize = 1500
	titleSample   = 800
)

var tagPromptsByType = map[entity.SourceType]string{
	entity.SourceTypeImage: "This is text extracted from an IMAGE using OCR. Generate 5-7 relevant tags describing: the type of visual content, theme, main subject, important keywords. Examples: diagram, chart, handwritten text, form, screenshot.",
	entity.SourceTypePDF:   "This is text extracted from a PDF. Generate 5-7 relevant tags about: theme, field of knowledge, document type (article, report, manual, etc), main subjects.",
	entity.SourceTypeVideo: "This is a VIDEO transcript. Generate 5-7 relevant tags about: theme, subject, content type (lecture, tutorial, talk, etc), topics covered.",
	entity.SourceTypeText:  "This is a text document. Generate 5-7 relevant tags about: theme, subject, field of knowledge, main topics.",
}

// Enricher derives auxiliary metadata (tags, titles) from raw document text
// through the generation provider.
type Enricher struct {
	provider llm.LLMProvider
}

func NewEnricher(provider llm.LLMProvider) *Enricher {
	return &Enricher{provider: provider}
}

// GenerateTags asks the model for descriptive tags and normalizes the answer:
// trimmed, lowercased, deduplicated, capped at 7, entries of 30+ chars dropped.
func (e *Enricher) GenerateTags(ctx context.Context, text string, sourceType entity.SourceType) ([]string, error) {
	typePrompt, ok := tagPromptsByType[sourceType]
	if !ok {
		typePrompt = tagPromptsByType[entity.SourceTypeText]
	}

	response, err := e.provider.Chat(ctx, []llm.Message{
		{
			Role:    "system",
			Content: typePrompt + "\n\nReturn ONLY the tags, comma-separated, lowercase, no explanations. Example: mathematics, geometry, trigonometry, education, high school",
		},
		{
			Role:    "user",
			Content: "Content:\n" + truncateRunes(text, tagSampleSize),
		},
	}, llm.WithTemperature(0.7))
	if err != nil {
		return nil, fmt.Errorf("generate tags: %w", err)
	}

	return NormalizeTags(strings.Split(response, ",")), nil
}

// GenerateTitle asks the model for a short descriptive title for one chunk
// and strips any wrapping quotes the model adds anyway.
func (e *Enricher) GenerateTitle(ctx context.Context, text string, sourceType entity.SourceType) (string, error) {
	response, err := e.provider.Chat(ctx, []llm.Message{
		{
			Role: "system",
			Content: `You are an assistant that writes concise, descriptive titles for document fragments.

Generate a 3-8 word title summarizing the main content of this fragment.
The title must be:
- Descriptive and specific
- Without trailing punctuation
- Capitalized (first letter uppercase)

Return ONLY the title, no quotes or explanations.`,
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Document type: %s\n\nFragment content:\n%s", sourceType, truncateRunes(text, titleSample)),
		},
	}, llm.WithTemperature(0.5))
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}

	return StripQuotes(response), nil
}

// NormalizeTags applies the output-shape rules to a raw tag list. Exported so
// manually supplied tags go through the same cleanup.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, maxTags)
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || len([]rune(tag)) >= maxTagLength || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// StripQuotes removes one layer of wrapping quotation marks plus surrounding
// whitespace.
func StripQuotes(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"'`)
	return strings.TrimSpace(title)
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
