package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/fieldops/dispatchd/internal/domain"
)

// TaskFilter holds the optional criteria for task listing. Absent or blank
// criteria match everything; present criteria combine with AND.
type TaskFilter struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	Search   string // case-insensitive over title and client address; exact id match when numeric
	Limit    int
	Offset   int
}

// apply adds the filter's predicates to a select builder.
func (f TaskFilter) apply(qb sq.SelectBuilder) sq.SelectBuilder {
	if f.Status != nil {
		qb = qb.Where(sq.Eq{"status": *f.Status})
	}
	if f.Priority != nil {
		qb = qb.Where(sq.Eq{"priority": *f.Priority})
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		pattern := "%" + term + "%"
		or := sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"client_address": pattern},
		}
		if id, err := strconv.ParseInt(term, 10, 64); err == nil {
			or = append(or, sq.Eq{"id": id})
		}
		qb = qb.Where(or)
	}

	return qb
}

// List retrieves tasks matching the filter, newest first, with the total
// count of matches before pagination.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]*domain.Task, int, error) {
	qb := filter.apply(psql.Select(taskColumns...).From("tasks")).
		OrderBy("CASE priority WHEN 'HIGH' THEN 1 WHEN 'MEDIUM' THEN 2 WHEN 'LOW' THEN 3 END ASC").
		OrderBy("created_at DESC")

	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := filter.apply(psql.Select("COUNT(*)").From("tasks")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}
