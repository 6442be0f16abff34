package mapper

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edu-rag-be/internal/entity"
)

func TestPreview(t *testing.T) {
	short := "short content"
	assert.Equal(t, short, Preview(short))

	long := strings.Repeat("a", 250)
	preview := Preview(long)
	assert.Len(t, []rune(preview), 203)
	assert.True(t, strings.HasSuffix(preview, "..."))
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 0.876, RoundScore(0.87649))
	assert.Equal(t, 0.877, RoundScore(0.87651))
	assert.Equal(t, 1.0, RoundScore(0.9999))
}

func TestReference(t *testing.T) {
	page := 12
	start, end := 30.0, 90.0

	assert.Equal(t, "biology.pdf, p. 12", Reference(entity.SourceMetadata{
		SourceName: "biology.pdf",
		Page:       &page,
	}))
	assert.Equal(t, "lecture.mp4, 30s-90s", Reference(entity.SourceMetadata{
		SourceName: "lecture.mp4",
		StartTime:  &start,
		EndTime:    &end,
	}))
	assert.Equal(t, "notes.txt", Reference(entity.SourceMetadata{
		SourceName: "notes.txt",
	}))
}

func TestToDocumentRefs_DedupesBySourceURL(t *testing.T) {
	m := NewChatMapper()

	fragment := func(name, url string) *entity.RetrievedFragment {
		return &entity.RetrievedFragment{
			Chunk: &entity.Chunk{
				Id: uuid.New(),
				Metadata: entity.SourceMetadata{
					SourceType: entity.SourceTypePDF,
					SourceName: name,
					SourceURL:  url,
				},
			},
		}
	}

	refs := m.ToDocumentRefs([]*entity.RetrievedFragment{
		fragment("biology.pdf", "https://cdn/biology.pdf"),
		fragment("biology.pdf", "https://cdn/biology.pdf"),
		fragment("chemistry.pdf", "https://cdn/chemistry.pdf"),
	})

	require.Len(t, refs, 2)
	assert.Equal(t, "https://cdn/biology.pdf", refs[0].SourceURL)
	assert.Equal(t, "https://cdn/chemistry.pdf", refs[1].SourceURL)
}
