package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldops/dispatchd/internal/domain"
)

var assignmentColumns = []string{
	"id", "task_id", "technician_id", "assigned_by", "assigned_at", "status", "reason",
}

// AssignmentRepository handles database operations for assignments.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

func scanAssignment(row pgx.Row) (*domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(
		&a.ID,
		&a.TaskID,
		&a.TechnicianID,
		&a.AssignedBy,
		&a.AssignedAt,
		&a.Status,
		&a.Reason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoActiveAssignment
		}
		return nil, fmt.Errorf("scan assignment: %w", err)
	}
	return &a, nil
}

// Create inserts a new ACTIVE assignment within a transaction. The partial
// unique index on (task_id) WHERE status='ACTIVE' rejects a second active
// binding; that violation surfaces as domain.ErrConflict.
func (r *AssignmentRepository) Create(ctx context.Context, tx pgx.Tx, a *domain.Assignment) (*domain.Assignment, error) {
	if a.Status == "" {
		a.Status = domain.AssignmentStatusActive
	}

	query, args, err := psql.
		Insert("assignments").
		Columns("task_id", "technician_id", "assigned_by", "status", "reason").
		Values(a.TaskID, a.TechnicianID, a.AssignedBy, a.Status, a.Reason).
		Suffix("RETURNING id, assigned_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for assignment: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&a.ID, &a.AssignedAt)
	if err != nil {
		err = mapConflict(err, fmt.Sprintf("task %d already has an active assignment", a.TaskID))
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	return a, nil
}

// GetActiveByTask retrieves the single ACTIVE assignment for a task.
// Returns domain.ErrNoActiveAssignment when none exists.
func (r *AssignmentRepository) GetActiveByTask(ctx context.Context, taskID int64) (*domain.Assignment, error) {
	query, args, err := psql.
		Select(assignmentColumns...).
		From("assignments").
		Where(sq.Eq{
			"task_id": taskID,
			"status":  domain.AssignmentStatusActive,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetActiveByTask query: %w", err)
	}

	return scanAssignment(r.pool.QueryRow(ctx, query, args...))
}

// GetActiveByTaskForUpdate retrieves the ACTIVE assignment with a
// FOR UPDATE NOWAIT lock (within a transaction).
func (r *AssignmentRepository) GetActiveByTaskForUpdate(ctx context.Context, tx pgx.Tx, taskID int64) (*domain.Assignment, error) {
	query, args, err := psql.
		Select(assignmentColumns...).
		From("assignments").
		Where(sq.Eq{
			"task_id": taskID,
			"status":  domain.AssignmentStatusActive,
		}).
		Suffix("FOR UPDATE NOWAIT").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetActiveByTaskForUpdate query for task %d: %w", taskID, err)
	}

	a, err := scanAssignment(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapConflict(err, fmt.Sprintf("active assignment for task %d is locked", taskID))
	}
	return a, nil
}

// CloseActive transitions an ACTIVE assignment to a terminal status. The
// status predicate makes closed assignments immutable: once non-ACTIVE a row
// can never change again. Zero rows affected means another command closed it
// first, which surfaces as domain.ErrConflict.
func (r *AssignmentRepository) CloseActive(
	ctx context.Context,
	tx pgx.Tx,
	assignmentID int64,
	newStatus domain.AssignmentStatus,
	reason *string,
) error {
	query, args, err := psql.
		Update("assignments").
		Set("status", newStatus).
		Set("reason", reason).
		Where(sq.Eq{
			"id":     assignmentID,
			"status": domain.AssignmentStatusActive,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build CloseActive query for assignment %d: %w", assignmentID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("close assignment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: assignment %d is no longer active", domain.ErrConflict, assignmentID)
	}

	return nil
}

// ListByTask retrieves all assignments for a task, oldest first.
func (r *AssignmentRepository) ListByTask(ctx context.Context, taskID int64) ([]*domain.Assignment, error) {
	query, args, err := psql.
		Select(assignmentColumns...).
		From("assignments").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("assigned_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByTask query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return assignments, nil
}
