package specification

import (
	"gorm.io/gorm"
)

type BySourceURL struct {
	SourceURL string
}

func (s BySourceURL) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_url = ?", s.SourceURL)
}

// ChunkIndexBetween selects a contiguous index window, bounds inclusive.
type ChunkIndexBetween struct {
	From int
	To   int
}

func (s ChunkIndexBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chunk_index BETWEEN ? AND ?", s.From, s.To)
}
