package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"edu-rag-be/internal/entity"
)

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// Splitter cuts raw text into overlapping chunks. It tries larger semantic
// boundaries first (paragraph, line, sentence, word) before falling back to
// raw character cuts.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: []string{"\n\n", "\n", ". ", " ", ""},
	}
}

// Split returns the text cut into pieces of at most ~chunkSize runes, with
// consecutive pieces sharing an overlap tail to preserve context across
// boundaries.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	if utf8.RuneCountInString(text) <= s.chunkSize {
		return []string{text}
	}

	sep, rest := pickSeparator(text, separators)
	if sep == "" {
		return s.hardSplit(text)
	}

	// Split keeping the separator attached to the preceding piece, then
	// recurse on any piece that is still too large.
	var units []string
	for _, part := range splitAfter(text, sep) {
		if utf8.RuneCountInString(part) > s.chunkSize {
			units = append(units, s.split(part, rest)...)
		} else {
			units = append(units, part)
		}
	}

	return s.merge(units)
}

// merge greedily packs units into chunks, seeding each new chunk with the
// overlap tail of the previous one.
func (s *Splitter) merge(units []string) []string {
	var chunks []string
	var cur strings.Builder
	curLen := 0

	for _, u := range units {
		ul := utf8.RuneCountInString(u)
		if curLen > 0 && curLen+ul > s.chunkSize {
			if piece := strings.TrimSpace(cur.String()); piece != "" {
				chunks = append(chunks, piece)
			}
			tail := tailRunes(cur.String(), s.overlap)
			cur.Reset()
			cur.WriteString(tail)
			curLen = utf8.RuneCountInString(tail)
		}
		cur.WriteString(u)
		curLen += ul
	}

	if piece := strings.TrimSpace(cur.String()); piece != "" {
		chunks = append(chunks, piece)
	}
	return chunks
}

// hardSplit is the last resort: strict rune slicing with overlap.
func (s *Splitter) hardSplit(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap
	if step <= 0 {
		step = s.chunkSize
	}

	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// pickSeparator returns the first separator present in the text and the
// remaining (finer) separators to recurse with.
func pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// splitAfter splits on sep, keeping the separator attached to the piece
// before it, and drops empty pieces.
func splitAfter(text, sep string) []string {
	raw := strings.SplitAfter(text, sep)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func tailRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}

// Page is one extraction unit of a source document: a PDF page, an OCR'd
// image, a speech segment, or the whole text of a flat file.
type Page struct {
	Text       string
	Number     *int
	StartTime  *float64
	EndTime    *float64
	Confidence *float64
}

// DocumentInfo carries document-level metadata shared by every chunk.
type DocumentInfo struct {
	SourceType entity.SourceType
	SourceName string
	SourceURL  string
	Tags       []string
}

// chunkDraft is a chunk before the document total is known.
type chunkDraft struct {
	text string
	page Page
}

// ChunkPages splits every page independently and assigns a cumulative chunk
// index across the whole document. TotalChunks is backfilled only after all
// pages are split; drafts are never exposed to callers.
func (s *Splitter) ChunkPages(pages []Page, doc DocumentInfo) ([]*entity.Chunk, error) {
	if !doc.SourceType.Valid() {
		return nil, fmt.Errorf("unsupported source type: %q", doc.SourceType)
	}

	var drafts []chunkDraft
	for _, page := range pages {
		for _, piece := range s.Split(page.Text) {
			drafts = append(drafts, chunkDraft{text: piece, page: page})
		}
	}

	chunks := make([]*entity.Chunk, len(drafts))
	for i, d := range drafts {
		meta := entity.SourceMetadata{
			SourceType:  doc.SourceType,
			SourceName:  doc.SourceName,
			SourceURL:   doc.SourceURL,
			Tags:        doc.Tags,
			ChunkIndex:  i,
			TotalChunks: len(drafts),
		}
		switch doc.SourceType {
		case entity.SourceTypePDF:
			meta.Page = d.page.Number
		case entity.SourceTypeVideo:
			meta.StartTime = d.page.StartTime
			meta.EndTime = d.page.EndTime
		case entity.SourceTypeImage:
			meta.OCRConfidence = d.page.Confidence
		}
		chunks[i] = &entity.Chunk{
			Content:  d.text,
			Metadata: meta,
		}
	}

	return chunks, nil
}
