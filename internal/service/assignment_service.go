package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldops/dispatchd/internal/domain"
	"github.com/fieldops/dispatchd/internal/repository"
)

// AssignmentService coordinates task and assignment state transitions. It is
// the only component that mutates Task.Status, Task.TechnicianID,
// Assignment.Status, or appends to the audit trail. Every successful
// assignment command runs in one transaction and writes exactly one history
// record.
type AssignmentService struct {
	pool           *pgxpool.Pool
	taskRepo       *repository.TaskRepository
	assignmentRepo *repository.AssignmentRepository
	historyRepo    *repository.HistoryRepository
	technicianRepo *repository.TechnicianRepository
	validator      *Validator
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	assignmentRepo *repository.AssignmentRepository,
	historyRepo *repository.HistoryRepository,
	technicianRepo *repository.TechnicianRepository,
) *AssignmentService {
	return &AssignmentService{
		pool:           pool,
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		historyRepo:    historyRepo,
		technicianRepo: technicianRepo,
		validator:      NewValidator(),
	}
}

// getActiveTechnician fetches a technician by ID and verifies they are active.
func (s *AssignmentService) getActiveTechnician(ctx context.Context, technicianID int64) (*domain.Technician, error) {
	technician, err := s.technicianRepo.GetByID(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	if !technician.IsActive {
		return nil, fmt.Errorf("%w: technician %d", domain.ErrTechnicianInactive, technicianID)
	}
	return technician, nil
}

// appendHistoryAndCommit writes the audit record within the transaction,
// then commits. The history row and the state mutation it documents either
// both land or neither does.
func (s *AssignmentService) appendHistoryAndCommit(ctx context.Context, tx pgx.Tx, h *domain.AssignmentHistory) error {
	if err := s.historyRepo.Append(ctx, tx, h); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// rollback discards the transaction, logging anything unexpected.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

// CreateTask validates input and creates a task in UNASSIGNED status.
func (s *AssignmentService) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	if err := s.validator.ValidateCreateTask(params); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task := &domain.Task{
		Title:             params.Title,
		Description:       params.Description,
		ClientAddress:     params.ClientAddress,
		Priority:          params.Priority,
		EstimatedDuration: params.EstimatedDuration,
		Status:            domain.TaskStatusUnassigned,
		CreatedBy:         params.CreatedBy,
	}

	task, err = s.taskRepo.Create(ctx, tx, task)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task created",
		"task_id", task.ID,
		"priority", task.Priority,
		"created_by", task.CreatedBy,
	)

	return task, nil
}

// Assign binds a technician to an UNASSIGNED task: creates the ACTIVE
// assignment, moves the task to ASSIGNED and records a CREATED history row.
func (s *AssignmentService) Assign(
	ctx context.Context,
	taskID int64,
	technicianID int64,
	actor string,
) (*domain.Assignment, error) {
	technician, err := s.getActiveTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	// A task that already carries an assignment must go through Reassign;
	// a second ACTIVE assignment would break the one-active-per-task
	// invariant.
	if task.Status != domain.TaskStatusUnassigned {
		return nil, fmt.Errorf("%w: task %d is in %s status, expected UNASSIGNED", domain.ErrInvalidState, taskID, task.Status)
	}

	assignment := &domain.Assignment{
		TaskID:       taskID,
		TechnicianID: technician.ID,
		AssignedBy:   actor,
		Status:       domain.AssignmentStatusActive,
	}
	assignment, err = s.assignmentRepo.Create(ctx, tx, assignment)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	task.AssignTo(technician.ID)
	if err := s.taskRepo.UpdateAssignment(ctx, tx, taskID, oldStatus, task.Status, task.TechnicianID); err != nil {
		return nil, err
	}

	history := &domain.AssignmentHistory{
		AssignmentID: assignment.ID,
		TaskID:       taskID,
		TechnicianID: technician.ID,
		Action:       domain.HistoryActionCreated,
		Actor:        actor,
	}
	if err := s.appendHistoryAndCommit(ctx, tx, history); err != nil {
		return nil, err
	}

	slog.Info("task assigned",
		"task_id", taskID,
		"technician_id", technician.ID,
		"assignment_id", assignment.ID,
		"actor", actor,
	)

	return assignment, nil
}

// Reassign replaces the active assignment with a new one for another
// technician. The superseded assignment is marked REASSIGNED, the task drops
// back to ASSIGNED regardless of whether it was in progress, and the
// REASSIGNED history row records the previous technician.
func (s *AssignmentService) Reassign(
	ctx context.Context,
	taskID int64,
	newTechnicianID int64,
	actor string,
	reason string,
) (*domain.Assignment, error) {
	technician, err := s.getActiveTechnician(ctx, newTechnicianID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.CanBeReassigned() {
		return nil, fmt.Errorf("%w: task %d is in %s status, expected ASSIGNED or IN_PROGRESS", domain.ErrInvalidState, taskID, task.Status)
	}

	current, err := s.assignmentRepo.GetActiveByTaskForUpdate(ctx, tx, taskID)
	if err != nil {
		// An ASSIGNED/IN_PROGRESS task without an active assignment means
		// the invariants were already broken; surface as an internal fault,
		// not a client rejection.
		return nil, fmt.Errorf("task %d in %s status: %w", taskID, task.Status, err)
	}

	previousTechnicianID := current.TechnicianID

	if err := s.assignmentRepo.CloseActive(ctx, tx, current.ID, domain.AssignmentStatusReassigned, &reason); err != nil {
		return nil, err
	}

	assignment := &domain.Assignment{
		TaskID:       taskID,
		TechnicianID: technician.ID,
		AssignedBy:   actor,
		Status:       domain.AssignmentStatusActive,
	}
	assignment, err = s.assignmentRepo.Create(ctx, tx, assignment)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	task.ReassignTo(technician.ID)
	if err := s.taskRepo.UpdateAssignment(ctx, tx, taskID, oldStatus, task.Status, task.TechnicianID); err != nil {
		return nil, err
	}

	history := &domain.AssignmentHistory{
		AssignmentID:         assignment.ID,
		TaskID:               taskID,
		TechnicianID:         technician.ID,
		PreviousTechnicianID: &previousTechnicianID,
		Action:               domain.HistoryActionReassigned,
		Actor:                actor,
		Reason:               &reason,
	}
	if err := s.appendHistoryAndCommit(ctx, tx, history); err != nil {
		return nil, err
	}

	slog.Info("task reassigned",
		"task_id", taskID,
		"technician_id", technician.ID,
		"previous_technician_id", previousTechnicianID,
		"assignment_id", assignment.ID,
		"actor", actor,
	)

	return assignment, nil
}

// Start moves an ASSIGNED task into execution. This transition touches only
// the task: the assignment binding is unchanged, so no history row is
// written.
func (s *AssignmentService) Start(ctx context.Context, taskID int64, actor string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status != domain.TaskStatusAssigned {
		return nil, fmt.Errorf("%w: task %d is in %s status, expected ASSIGNED", domain.ErrInvalidState, taskID, task.Status)
	}

	oldStatus := task.Status
	task.Start()
	if err := s.taskRepo.UpdateAssignment(ctx, tx, taskID, oldStatus, task.Status, task.TechnicianID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task started",
		"task_id", taskID,
		"actor", actor,
	)

	return task, nil
}

// Complete finishes an IN_PROGRESS task: the task becomes COMPLETED
// (terminal, technician retained), the active assignment is closed as
// COMPLETED and a COMPLETED history row is recorded.
func (s *AssignmentService) Complete(ctx context.Context, taskID int64, actor string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status != domain.TaskStatusInProgress {
		return nil, fmt.Errorf("%w: task %d is in %s status, expected IN_PROGRESS", domain.ErrInvalidState, taskID, task.Status)
	}

	current, err := s.assignmentRepo.GetActiveByTaskForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, fmt.Errorf("task %d in %s status: %w", taskID, task.Status, err)
	}

	if err := s.assignmentRepo.CloseActive(ctx, tx, current.ID, domain.AssignmentStatusCompleted, nil); err != nil {
		return nil, err
	}

	oldStatus := task.Status
	task.Complete()
	if err := s.taskRepo.UpdateAssignment(ctx, tx, taskID, oldStatus, task.Status, task.TechnicianID); err != nil {
		return nil, err
	}

	history := &domain.AssignmentHistory{
		AssignmentID: current.ID,
		TaskID:       taskID,
		TechnicianID: current.TechnicianID,
		Action:       domain.HistoryActionCompleted,
		Actor:        actor,
	}
	if err := s.appendHistoryAndCommit(ctx, tx, history); err != nil {
		return nil, err
	}

	slog.Info("task completed",
		"task_id", taskID,
		"technician_id", current.TechnicianID,
		"actor", actor,
	)

	return task, nil
}

// Cancel withdraws the active assignment. The task reverts to UNASSIGNED
// with the technician cleared so it re-enters the assignable pool, and a
// CANCELLED history row is recorded.
func (s *AssignmentService) Cancel(ctx context.Context, taskID int64, actor string, reason string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return err
	}

	current, err := s.assignmentRepo.GetActiveByTaskForUpdate(ctx, tx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveAssignment) {
			return fmt.Errorf("%w: task %d has no active assignment to cancel", domain.ErrInvalidState, taskID)
		}
		return err
	}

	if err := s.assignmentRepo.CloseActive(ctx, tx, current.ID, domain.AssignmentStatusCancelled, &reason); err != nil {
		return err
	}

	oldStatus := task.Status
	task.Unassign()
	if err := s.taskRepo.UpdateAssignment(ctx, tx, taskID, oldStatus, task.Status, task.TechnicianID); err != nil {
		return err
	}

	history := &domain.AssignmentHistory{
		AssignmentID: current.ID,
		TaskID:       taskID,
		TechnicianID: current.TechnicianID,
		Action:       domain.HistoryActionCancelled,
		Actor:        actor,
		Reason:       &reason,
	}
	if err := s.appendHistoryAndCommit(ctx, tx, history); err != nil {
		return err
	}

	slog.Info("assignment cancelled",
		"task_id", taskID,
		"assignment_id", current.ID,
		"technician_id", current.TechnicianID,
		"actor", actor,
	)

	return nil
}
