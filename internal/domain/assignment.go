package domain

import "time"

// AssignmentStatus represents the lifecycle state of one technician-to-task
// binding. ACTIVE is the only non-terminal state.
type AssignmentStatus string

const (
	AssignmentStatusActive     AssignmentStatus = "ACTIVE"
	AssignmentStatusReassigned AssignmentStatus = "REASSIGNED"
	AssignmentStatusCompleted  AssignmentStatus = "COMPLETED"
	AssignmentStatusCancelled  AssignmentStatus = "CANCELLED"
)

// IsValid checks if the status is one of the allowed values.
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusActive, AssignmentStatusReassigned,
		AssignmentStatusCompleted, AssignmentStatusCancelled:
		return true
	default:
		return false
	}
}

// Assignment represents one binding of a technician to a task. Many
// assignments may exist per task over time; at most one is ACTIVE.
type Assignment struct {
	ID           int64
	TaskID       int64
	TechnicianID int64
	AssignedBy   string
	AssignedAt   time.Time
	Status       AssignmentStatus
	Reason       *string
}

// IsActive checks if this binding is still in force.
func (a *Assignment) IsActive() bool {
	return a.Status == AssignmentStatusActive
}

// MarkReassigned closes the binding because it was superseded by a new one.
// No-op unless ACTIVE; callers check the resulting status.
func (a *Assignment) MarkReassigned(reason string) {
	if !a.IsActive() {
		return
	}
	a.Status = AssignmentStatusReassigned
	a.Reason = &reason
}

// Complete closes the binding because the task finished. No-op unless ACTIVE.
func (a *Assignment) Complete() {
	if !a.IsActive() {
		return
	}
	a.Status = AssignmentStatusCompleted
}

// Cancel withdraws the binding. No-op unless ACTIVE.
func (a *Assignment) Cancel(reason string) {
	if !a.IsActive() {
		return
	}
	a.Status = AssignmentStatusCancelled
	a.Reason = &reason
}
