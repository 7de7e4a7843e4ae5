package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/dispatchd/internal/domain"
)

func buildFilterSQL(t *testing.T, filter TaskFilter) (string, []interface{}) {
	t.Helper()
	query, args, err := filter.apply(psql.Select(taskColumns...).From("tasks")).ToSql()
	require.NoError(t, err)
	return query, args
}

func TestTaskFilterEmptyMatchesEverything(t *testing.T) {
	query, args := buildFilterSQL(t, TaskFilter{})

	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}

func TestTaskFilterStatusAndPriorityCombineWithAnd(t *testing.T) {
	status := domain.TaskStatusAssigned
	priority := domain.TaskPriorityHigh
	query, args := buildFilterSQL(t, TaskFilter{Status: &status, Priority: &priority})

	assert.Contains(t, query, "status = ")
	assert.Contains(t, query, "priority = ")
	assert.Contains(t, query, " AND ")
	assert.Equal(t, []interface{}{status, priority}, args)
}

func TestTaskFilterSearchMatchesTitleAndAddress(t *testing.T) {
	query, args := buildFilterSQL(t, TaskFilter{Search: "boiler"})

	assert.Contains(t, query, "title ILIKE")
	assert.Contains(t, query, "client_address ILIKE")
	assert.NotContains(t, query, "id =")
	assert.Contains(t, args, "%boiler%")
}

func TestTaskFilterNumericSearchAddsIDMatch(t *testing.T) {
	query, args := buildFilterSQL(t, TaskFilter{Search: "42"})

	assert.Contains(t, query, "title ILIKE")
	assert.Contains(t, query, "client_address ILIKE")
	assert.Contains(t, query, "id = ")
	assert.Contains(t, args, int64(42))
}

func TestTaskFilterBlankSearchIsIgnored(t *testing.T) {
	query, args := buildFilterSQL(t, TaskFilter{Search: "   "})

	assert.NotContains(t, query, "ILIKE")
	assert.Empty(t, args)
}
