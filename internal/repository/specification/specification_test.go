package specification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func buildSQL(t *testing.T, specs ...Specification) string {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		tx = tx.Table("chunks")
		for _, spec := range specs {
			tx = spec.Apply(tx)
		}
		return tx.Find(&[]map[string]interface{}{})
	})
}

func TestBySourceURL(t *testing.T) {
	sql := buildSQL(t, BySourceURL{SourceURL: "https://cdn/biology.pdf"})

	assert.Contains(t, sql, "source_url")
	assert.Contains(t, sql, "https://cdn/biology.pdf")
}

func TestChunkIndexBetween(t *testing.T) {
	sql := buildSQL(t, ChunkIndexBetween{From: 2, To: 4})

	assert.Contains(t, sql, "chunk_index BETWEEN 2 AND 4")
}

func TestOrderBy(t *testing.T) {
	asc := buildSQL(t, OrderBy{Field: "chunk_index"})
	assert.Contains(t, asc, "ORDER BY chunk_index ASC")

	desc := buildSQL(t, OrderBy{Field: "created_at", Desc: true})
	assert.Contains(t, desc, "ORDER BY created_at DESC")
}

func TestSpecificationsCompose(t *testing.T) {
	sql := buildSQL(t,
		BySourceURL{SourceURL: "local://notes"},
		ChunkIndexBetween{From: 0, To: 2},
		OrderBy{Field: "chunk_index"},
	)

	assert.Contains(t, sql, "source_url")
	assert.Contains(t, sql, "chunk_index BETWEEN 0 AND 2")
	assert.Contains(t, sql, "ORDER BY chunk_index ASC")
}
