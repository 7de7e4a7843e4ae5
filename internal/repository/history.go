package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldops/dispatchd/internal/domain"
)

// HistoryRepository handles the append-only assignment audit trail.
// It deliberately exposes no update or delete operation: immutability of
// history rows is a property of this type, not a convention.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// Append writes one history record within the transaction of the command it
// documents.
func (r *HistoryRepository) Append(ctx context.Context, tx pgx.Tx, h *domain.AssignmentHistory) error {
	query, args, err := psql.
		Insert("assignment_history").
		Columns(
			"assignment_id", "task_id", "technician_id",
			"previous_technician_id", "action", "actor", "reason",
		).
		Values(
			h.AssignmentID, h.TaskID, h.TechnicianID,
			h.PreviousTechnicianID, h.Action, h.Actor, h.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("append assignment history: %w", err)
	}

	return nil
}

// GetByTaskID retrieves all history records for a task in event order.
func (r *HistoryRepository) GetByTaskID(ctx context.Context, taskID int64) ([]*domain.AssignmentHistory, error) {
	return r.query(ctx, sq.Eq{"task_id": taskID})
}

// GetByAssignmentID retrieves all history records for one assignment.
func (r *HistoryRepository) GetByAssignmentID(ctx context.Context, assignmentID int64) ([]*domain.AssignmentHistory, error) {
	return r.query(ctx, sq.Eq{"assignment_id": assignmentID})
}

func (r *HistoryRepository) query(ctx context.Context, pred sq.Eq) ([]*domain.AssignmentHistory, error) {
	query, args, err := psql.
		Select(
			"id", "assignment_id", "task_id", "technician_id",
			"previous_technician_id", "action", "actor", "reason", "created_at",
		).
		From("assignment_history").
		Where(pred).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignment history: %w", err)
	}
	defer rows.Close()

	var records []*domain.AssignmentHistory
	for rows.Next() {
		var h domain.AssignmentHistory
		err := rows.Scan(
			&h.ID,
			&h.AssignmentID,
			&h.TaskID,
			&h.TechnicianID,
			&h.PreviousTechnicianID,
			&h.Action,
			&h.Actor,
			&h.Reason,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		records = append(records, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}
