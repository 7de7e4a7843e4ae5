package repository

import (
	"context"
	"fmt"
)

// TechnicianStatsResult holds dispatch statistics for a single technician.
type TechnicianStatsResult struct {
	TechnicianID     int64
	TechnicianName   string
	TasksAssigned    int
	TasksInProgress  int
	TasksCompleted   int
	ReassignmentsOff int // times this technician's assignment was superseded
}

// DispatchStatsResult holds overall dispatch statistics.
type DispatchStatsResult struct {
	TotalTasks      int
	TasksByStatus   map[string]int
	TasksByPriority map[string]int
}

// GetTechnicianStats retrieves per-technician workload and completion counts.
// Completions and reassignments are counted from the audit trail, current
// workload from task state.
func (r *TaskRepository) GetTechnicianStats(ctx context.Context) ([]TechnicianStatsResult, error) {
	query := `
		SELECT
			tech.id,
			tech.name,
			COUNT(CASE WHEN t.status = 'ASSIGNED' THEN 1 END) as tasks_assigned,
			COUNT(CASE WHEN t.status = 'IN_PROGRESS' THEN 1 END) as tasks_in_progress,
			(SELECT COUNT(*) FROM assignment_history h
				WHERE h.technician_id = tech.id AND h.action = 'COMPLETED') as tasks_completed,
			(SELECT COUNT(*) FROM assignment_history h
				WHERE h.previous_technician_id = tech.id AND h.action = 'REASSIGNED') as reassignments_off
		FROM technicians tech
		LEFT JOIN tasks t ON t.technician_id = tech.id
		WHERE tech.is_active = true
		GROUP BY tech.id, tech.name
		ORDER BY tech.name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query technician stats: %w", err)
	}
	defer rows.Close()

	var results []TechnicianStatsResult
	for rows.Next() {
		var result TechnicianStatsResult
		err := rows.Scan(
			&result.TechnicianID,
			&result.TechnicianName,
			&result.TasksAssigned,
			&result.TasksInProgress,
			&result.TasksCompleted,
			&result.ReassignmentsOff,
		)
		if err != nil {
			return nil, fmt.Errorf("scan technician stats: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate technician stats rows: %w", err)
	}

	return results, nil
}

// GetDispatchStats retrieves overall task counts by status and priority.
func (r *TaskRepository) GetDispatchStats(ctx context.Context) (*DispatchStatsResult, error) {
	result := &DispatchStatsResult{
		TasksByStatus:   make(map[string]int),
		TasksByPriority: make(map[string]int),
	}

	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM tasks
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		result.TasksByStatus[status] = count
		result.TotalTasks += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status rows: %w", err)
	}

	prows, err := r.pool.Query(ctx, `
		SELECT priority, COUNT(*)
		FROM tasks
		GROUP BY priority
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks by priority: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var priority string
		var count int
		if err := prows.Scan(&priority, &count); err != nil {
			return nil, fmt.Errorf("scan priority count: %w", err)
		}
		result.TasksByPriority[priority] = count
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("iterate priority rows: %w", err)
	}

	return result, nil
}
