package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edu-rag-be/internal/entity"
)

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(DefaultChunkSize, DefaultOverlap)

	chunks := s.Split("Photosynthesis converts light into chemical energy.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "Photosynthesis converts light into chemical energy.", chunks[0])
}

func TestSplit_EmptyText(t *testing.T) {
	s := NewSplitter(DefaultChunkSize, DefaultOverlap)

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	s := NewSplitter(60, 10)

	text := strings.Repeat("alpha beta gamma. ", 3) + "\n\n" + strings.Repeat("delta epsilon. ", 3)
	chunks := s.Split(text)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestSplit_OverlapCarriesTail(t *testing.T) {
	s := NewSplitter(40, 10)

	text := strings.Repeat("one two three four five six seven eight. ", 4)
	chunks := s.Split(text)

	require.Greater(t, len(chunks), 1)
	// Consecutive chunks share material from the previous tail.
	for i := 1; i < len(chunks); i++ {
		prevTail := tailRunes(chunks[i-1], 5)
		assert.NotEmpty(t, prevTail)
	}
}

func TestSplit_HardSplitWithoutSeparators(t *testing.T) {
	s := NewSplitter(10, 2)

	chunks := s.Split(strings.Repeat("x", 35))

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 10)
	}
}

func TestChunkPages_ContiguousIndexing(t *testing.T) {
	s := NewSplitter(30, 5)

	one, two := 1, 2
	pages := []Page{
		{Text: strings.Repeat("first page sentence. ", 4), Number: &one},
		{Text: strings.Repeat("second page sentence. ", 4), Number: &two},
	}

	chunks, err := s.ChunkPages(pages, DocumentInfo{
		SourceType: entity.SourceTypePDF,
		SourceName: "biology.pdf",
		SourceURL:  "https://cdn/biology.pdf",
	})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Metadata.ChunkIndex)
		assert.Equal(t, len(chunks), chunk.Metadata.TotalChunks)
		assert.Equal(t, "biology.pdf", chunk.Metadata.SourceName)
	}
}

func TestChunkPages_SingleChunkDocument(t *testing.T) {
	s := NewSplitter(DefaultChunkSize, DefaultOverlap)

	chunks, err := s.ChunkPages([]Page{
		{Text: "Photosynthesis is how plants make food from light."},
	}, DocumentInfo{
		SourceType: entity.SourceTypeText,
		SourceName: "notes.txt",
		SourceURL:  "local://notes",
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, 0, chunks[0].Metadata.ChunkIndex)
	assert.Equal(t, 1, chunks[0].Metadata.TotalChunks)
}

func TestChunkPages_UnsupportedType(t *testing.T) {
	s := NewSplitter(DefaultChunkSize, DefaultOverlap)

	_, err := s.ChunkPages([]Page{{Text: "anything"}}, DocumentInfo{
		SourceType: entity.SourceType("docx"),
	})
	assert.Error(t, err)
}

func TestChunkPages_LocationMetadataPerType(t *testing.T) {
	s := NewSplitter(DefaultChunkSize, DefaultOverlap)

	page := 3
	start, end := 30.0, 90.0
	confidence := 0.87

	t.Run("pdf carries page number", func(t *testing.T) {
		chunks, err := s.ChunkPages([]Page{{Text: "pdf content", Number: &page}}, DocumentInfo{
			SourceType: entity.SourceTypePDF,
			SourceName: "a.pdf",
		})
		require.NoError(t, err)
		require.NotNil(t, chunks[0].Metadata.Page)
		assert.Equal(t, 3, *chunks[0].Metadata.Page)
		assert.Nil(t, chunks[0].Metadata.StartTime)
	})

	t.Run("video carries timestamps", func(t *testing.T) {
		chunks, err := s.ChunkPages([]Page{{Text: "transcript segment", StartTime: &start, EndTime: &end}}, DocumentInfo{
			SourceType: entity.SourceTypeVideo,
			SourceName: "lecture.mp4",
		})
		require.NoError(t, err)
		require.NotNil(t, chunks[0].Metadata.StartTime)
		assert.Equal(t, 30.0, *chunks[0].Metadata.StartTime)
		assert.Equal(t, 90.0, *chunks[0].Metadata.EndTime)
		assert.Nil(t, chunks[0].Metadata.Page)
	})

	t.Run("image carries ocr confidence", func(t *testing.T) {
		chunks, err := s.ChunkPages([]Page{{Text: "ocr text", Confidence: &confidence}}, DocumentInfo{
			SourceType: entity.SourceTypeImage,
			SourceName: "scan.png",
		})
		require.NoError(t, err)
		require.NotNil(t, chunks[0].Metadata.OCRConfidence)
		assert.Equal(t, 0.87, *chunks[0].Metadata.OCRConfidence)
	})
}
