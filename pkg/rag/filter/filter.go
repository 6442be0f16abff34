package filter

import (
	"strings"

	"edu-rag-be/internal/entity"
)

// Metadata fields a filter may constrain.
const (
	FieldSourceType = "source_type"
	FieldSourceName = "source_name"
	FieldSourceURL  = "source_url"
	FieldTitle      = "title"
	FieldTags       = "tags"
)

// Filter is a structured constraint over chunk metadata. Implementations
// form a small tagged variant: Equals, OneOf, And, Or. Each backend owns one
// translation of the variant; Matches is the in-process predicate used by the
// post-hoc fallback pass.
//
// Matching semantics are exact and case-insensitive, also inside Or branches.
type Filter interface {
	Matches(meta entity.SourceMetadata) bool
}

// Equals constrains a field to a single value. On the tags field it means
// "the tag is present".
type Equals struct {
	Field string
	Value string
}

func (f Equals) Matches(meta entity.SourceMetadata) bool {
	if f.Field == FieldTags {
		return containsFold(meta.Tags, f.Value)
	}
	return strings.EqualFold(fieldValue(meta, f.Field), f.Value)
}

// OneOf constrains a field to a set of values. On the tags field it means
// "at least one of these tags is present".
type OneOf struct {
	Field  string
	Values []string
}

func (f OneOf) Matches(meta entity.SourceMetadata) bool {
	if f.Field == FieldTags {
		for _, v := range f.Values {
			if containsFold(meta.Tags, v) {
				return true
			}
		}
		return false
	}
	got := fieldValue(meta, f.Field)
	for _, v := range f.Values {
		if strings.EqualFold(got, v) {
			return true
		}
	}
	return false
}

// And matches when every sub-filter matches. An empty And matches everything.
type And struct {
	Filters []Filter
}

func (f And) Matches(meta entity.SourceMetadata) bool {
	for _, sub := range f.Filters {
		if !sub.Matches(meta) {
			return false
		}
	}
	return true
}

// Or matches when at least one sub-filter matches. An empty Or matches
// nothing.
type Or struct {
	Filters []Filter
}

func (f Or) Matches(meta entity.SourceMetadata) bool {
	for _, sub := range f.Filters {
		if sub.Matches(meta) {
			return true
		}
	}
	return false
}

func fieldValue(meta entity.SourceMetadata, field string) string {
	switch field {
	case FieldSourceType:
		return string(meta.SourceType)
	case FieldSourceName:
		return meta.SourceName
	case FieldSourceURL:
		return meta.SourceURL
	case FieldTitle:
		return meta.Title
	}
	return ""
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}
