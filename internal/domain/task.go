package domain

import "time"

// TaskStatus represents the status of a task in the state machine.
type TaskStatus string

const (
	TaskStatusUnassigned TaskStatus = "UNASSIGNED"
	TaskStatusAssigned   TaskStatus = "ASSIGNED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// IsTerminal returns true if the status is terminal (no transitions allowed).
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted
}

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusUnassigned, TaskStatusAssigned, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// TaskPriority represents the priority level of a task.
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityLow    TaskPriority = "LOW"
)

// IsValid checks if the priority is one of the allowed values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	default:
		return false
	}
}

// Task represents a unit of field work dispatched to technicians.
type Task struct {
	ID                int64
	Title             string
	Description       string
	ClientAddress     string
	Priority          TaskPriority
	EstimatedDuration *int // minutes
	Status            TaskStatus
	TechnicianID      *int64
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanBeAssigned checks if the task can carry an assignment at all.
func (t *Task) CanBeAssigned() bool {
	return t.Status == TaskStatusUnassigned || t.Status == TaskStatusAssigned
}

// CanBeReassigned checks if the task's active assignment can be replaced.
func (t *Task) CanBeReassigned() bool {
	return t.Status == TaskStatusAssigned || t.Status == TaskStatusInProgress
}

// AssignTo binds the task to a technician. No-op unless UNASSIGNED.
func (t *Task) AssignTo(technicianID int64) {
	if t.Status != TaskStatusUnassigned {
		return
	}
	t.Status = TaskStatusAssigned
	t.TechnicianID = &technicianID
}

// ReassignTo replaces the technician and forces status back to ASSIGNED:
// a task reassigned mid-execution is not in progress for the new technician.
// No-op unless ASSIGNED or IN_PROGRESS.
func (t *Task) ReassignTo(technicianID int64) {
	if !t.CanBeReassigned() {
		return
	}
	t.Status = TaskStatusAssigned
	t.TechnicianID = &technicianID
}

// Start moves the task into execution. No-op unless ASSIGNED.
func (t *Task) Start() {
	if t.Status != TaskStatusAssigned {
		return
	}
	t.Status = TaskStatusInProgress
}

// Complete finishes the task. The technician reference is retained for
// historical reference. No-op unless IN_PROGRESS.
func (t *Task) Complete() {
	if t.Status != TaskStatusInProgress {
		return
	}
	t.Status = TaskStatusCompleted
}

// Unassign returns the task to the assignable pool and clears the
// technician. No-op once COMPLETED.
func (t *Task) Unassign() {
	if t.Status.IsTerminal() {
		return
	}
	t.Status = TaskStatusUnassigned
	t.TechnicianID = nil
}
