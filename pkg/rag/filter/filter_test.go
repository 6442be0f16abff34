package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"edu-rag-be/internal/entity"
)

func sampleMeta() entity.SourceMetadata {
	return entity.SourceMetadata{
		SourceType: entity.SourceTypePDF,
		SourceName: "Biology.pdf",
		SourceURL:  "https://cdn/biology.pdf",
		Title:      "Photosynthesis Basics",
		Tags:       []string{"biology", "plants"},
	}
}

func TestEquals(t *testing.T) {
	meta := sampleMeta()

	assert.True(t, Equals{Field: FieldSourceType, Value: "pdf"}.Matches(meta))
	assert.True(t, Equals{Field: FieldSourceName, Value: "biology.pdf"}.Matches(meta), "matching is case-insensitive")
	assert.False(t, Equals{Field: FieldSourceType, Value: "video"}.Matches(meta))
	assert.False(t, Equals{Field: "unknown_field", Value: "pdf"}.Matches(meta))
}

func TestEquals_TagsMeansMembership(t *testing.T) {
	meta := sampleMeta()

	assert.True(t, Equals{Field: FieldTags, Value: "biology"}.Matches(meta))
	assert.True(t, Equals{Field: FieldTags, Value: "PLANTS"}.Matches(meta))
	assert.False(t, Equals{Field: FieldTags, Value: "chemistry"}.Matches(meta))
}

func TestOneOf(t *testing.T) {
	meta := sampleMeta()

	assert.True(t, OneOf{Field: FieldSourceType, Values: []string{"video", "pdf"}}.Matches(meta))
	assert.False(t, OneOf{Field: FieldSourceType, Values: []string{"video", "image"}}.Matches(meta))
	assert.False(t, OneOf{Field: FieldSourceType, Values: nil}.Matches(meta))
}

func TestOneOf_TagsAnyOverlap(t *testing.T) {
	meta := sampleMeta()

	assert.True(t, OneOf{Field: FieldTags, Values: []string{"chemistry", "plants"}}.Matches(meta))
	assert.False(t, OneOf{Field: FieldTags, Values: []string{"chemistry", "physics"}}.Matches(meta))
}

func TestAnd(t *testing.T) {
	meta := sampleMeta()

	assert.True(t, And{Filters: []Filter{
		Equals{Field: FieldSourceType, Value: "pdf"},
		Equals{Field: FieldTags, Value: "biology"},
	}}.Matches(meta))

	assert.False(t, And{Filters: []Filter{
		Equals{Field: FieldSourceType, Value: "pdf"},
		Equals{Field: FieldTags, Value: "chemistry"},
	}}.Matches(meta))

	assert.True(t, And{}.Matches(meta), "empty conjunction matches everything")
}

func TestOr(t *testing.T) {
	meta := sampleMeta()

	assert.True(t, Or{Filters: []Filter{
		Equals{Field: FieldSourceType, Value: "video"},
		Equals{Field: FieldTags, Value: "plants"},
	}}.Matches(meta))

	assert.False(t, Or{Filters: []Filter{
		Equals{Field: FieldSourceType, Value: "video"},
		Equals{Field: FieldTags, Value: "chemistry"},
	}}.Matches(meta))

	assert.False(t, Or{}.Matches(meta), "empty disjunction matches nothing")
}

func TestNestedComposition(t *testing.T) {
	meta := sampleMeta()

	f := And{Filters: []Filter{
		OneOf{Field: FieldSourceType, Values: []string{"pdf", "text"}},
		Or{Filters: []Filter{
			Equals{Field: FieldTags, Value: "physics"},
			Equals{Field: FieldTitle, Value: "photosynthesis basics"},
		}},
	}}

	assert.True(t, f.Matches(meta))
}
