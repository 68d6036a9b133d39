package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/maria-crm/internal/entity"
)

func TestPatchBuilderNumbersPlaceholders(t *testing.T) {
	var b patchBuilder
	title := "Villa"
	status := entity.DealStatusWon
	setIf(&b, "title", &title)
	setIf[float64](&b, "amount", nil)
	setIf(&b, "status", &status)

	query, args, ok := b.build("deals", 42)

	assert.True(t, ok)
	assert.Equal(t, "UPDATE deals SET title = $1, status = $2, updated_at = NOW() WHERE id = $3 AND deleted_at IS NULL", query)
	assert.Equal(t, []any{"Villa", entity.DealStatusWon, int64(42)}, args)
}

func TestPatchBuilderGuardsWhereClause(t *testing.T) {
	var b patchBuilder
	status := entity.LeadStatusLost
	setIf(&b, "status", &status)
	b.guard("status", entity.LeadStatusQualified)

	query, args, ok := b.build("leads", 7)

	assert.True(t, ok)
	assert.Equal(t, "UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $3 AND deleted_at IS NULL AND status = $2", query)
	assert.Equal(t, []any{entity.LeadStatusLost, entity.LeadStatusQualified, int64(7)}, args)
}

func TestPatchBuilderEmpty(t *testing.T) {
	var b patchBuilder

	_, _, ok := b.build("leads", 1)

	assert.False(t, ok)
}

func TestSortTimelineNewestFirstUndatedLast(t *testing.T) {
	older := fixedTime(1)
	newer := fixedTime(2)
	items := []*entity.TimelineItem{
		{ID: 1, HappenedAt: &older},
		{ID: 2},
		{ID: 3, HappenedAt: &newer},
	}

	sortTimeline(items)

	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, int64(1), items[1].ID)
	assert.Equal(t, int64(2), items[2].ID)
}

func TestLoadMigrationsOrdered(t *testing.T) {
	migrations, err := loadMigrations()

	assert.NoError(t, err)
	if assert.Len(t, migrations, 2) {
		assert.Equal(t, "0001_schema", migrations[0].version)
		assert.Equal(t, "0002_seed", migrations[1].version)
		assert.Contains(t, migrations[0].sql, "CREATE TABLE IF NOT EXISTS deal_stage_history")
	}
}
