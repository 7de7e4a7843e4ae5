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

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "client_address", "priority",
	"estimated_duration", "status", "technician_id", "created_by",
	"created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.ClientAddress,
		&task.Priority,
		&task.EstimatedDuration,
		&task.Status,
		&task.TechnicianID,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID int64) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a task by ID with a FOR UPDATE NOWAIT row lock
// (within a transaction). A concurrent holder of the lock causes an
// immediate domain.ErrConflict instead of queueing behind the winner.
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID int64) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE NOWAIT").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for task %d: %w", taskID, err)
	}

	task, err := scanTask(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapConflict(err, fmt.Sprintf("task %d is locked by another command", taskID))
	}
	return task, nil
}

// UpdateAssignment writes the task status and technician reference with an
// optimistic old-status predicate. Returns domain.ErrConflict if the task
// was modified since it was read (oldStatus no longer matches).
func (r *TaskRepository) UpdateAssignment(
	ctx context.Context,
	tx pgx.Tx,
	taskID int64,
	oldStatus domain.TaskStatus,
	newStatus domain.TaskStatus,
	technicianID *int64,
) error {
	query, args, err := psql.
		Update("tasks").
		Set("status", newStatus).
		Set("technician_id", technicianID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":     taskID,
			"status": oldStatus,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateAssignment query for task %d: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task assignment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %d changed from %s", domain.ErrConflict, taskID, oldStatus)
	}

	return nil
}

// Create creates a new task in the database within a transaction.
// Returns the created task with ID, CreatedAt, and UpdatedAt populated.
func (r *TaskRepository) Create(ctx context.Context, tx pgx.Tx, task *domain.Task) (*domain.Task, error) {
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusUnassigned
	}

	query, args, err := psql.
		Insert("tasks").
		Columns(
			"title", "description", "client_address", "priority",
			"estimated_duration", "status", "technician_id", "created_by",
		).
		Values(
			task.Title,
			task.Description,
			task.ClientAddress,
			task.Priority,
			task.EstimatedDuration,
			task.Status,
			task.TechnicianID,
			task.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}
