package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskAssignTo(t *testing.T) {
	task := &Task{Status: TaskStatusUnassigned}

	task.AssignTo(5)

	assert.Equal(t, TaskStatusAssigned, task.Status)
	if assert.NotNil(t, task.TechnicianID) {
		assert.Equal(t, int64(5), *task.TechnicianID)
	}
}

func TestTaskAssignTo_NoOpWhenNotUnassigned(t *testing.T) {
	five := int64(5)
	for _, status := range []TaskStatus{TaskStatusAssigned, TaskStatusInProgress, TaskStatusCompleted} {
		task := &Task{Status: status, TechnicianID: &five}

		task.AssignTo(7)

		assert.Equal(t, status, task.Status)
		assert.Equal(t, int64(5), *task.TechnicianID)
	}
}

func TestTaskReassignTo_ForcesAssigned(t *testing.T) {
	five := int64(5)

	// Reassigning an in-progress task drops it back to ASSIGNED: the new
	// technician has not started it.
	task := &Task{Status: TaskStatusInProgress, TechnicianID: &five}
	task.ReassignTo(7)

	assert.Equal(t, TaskStatusAssigned, task.Status)
	assert.Equal(t, int64(7), *task.TechnicianID)
}

func TestTaskReassignTo_NoOpWhenUnassignedOrCompleted(t *testing.T) {
	task := &Task{Status: TaskStatusUnassigned}
	task.ReassignTo(7)
	assert.Equal(t, TaskStatusUnassigned, task.Status)
	assert.Nil(t, task.TechnicianID)

	five := int64(5)
	task = &Task{Status: TaskStatusCompleted, TechnicianID: &five}
	task.ReassignTo(7)
	assert.Equal(t, TaskStatusCompleted, task.Status)
	assert.Equal(t, int64(5), *task.TechnicianID)
}

func TestTaskStartAndComplete(t *testing.T) {
	five := int64(5)
	task := &Task{Status: TaskStatusAssigned, TechnicianID: &five}

	task.Start()
	assert.Equal(t, TaskStatusInProgress, task.Status)

	task.Complete()
	assert.Equal(t, TaskStatusCompleted, task.Status)
	// Completed tasks retain the last technician for historical reference.
	assert.Equal(t, int64(5), *task.TechnicianID)

	// Terminal: further transitions are no-ops.
	task.Start()
	task.Unassign()
	assert.Equal(t, TaskStatusCompleted, task.Status)
	assert.NotNil(t, task.TechnicianID)
}

func TestTaskStart_NoOpUnlessAssigned(t *testing.T) {
	task := &Task{Status: TaskStatusUnassigned}
	task.Start()
	assert.Equal(t, TaskStatusUnassigned, task.Status)

	task = &Task{Status: TaskStatusInProgress}
	task.Start()
	assert.Equal(t, TaskStatusInProgress, task.Status)
}

func TestTaskComplete_NoOpUnlessInProgress(t *testing.T) {
	for _, status := range []TaskStatus{TaskStatusUnassigned, TaskStatusAssigned, TaskStatusCompleted} {
		task := &Task{Status: status}
		task.Complete()
		assert.Equal(t, status, task.Status)
	}
}

func TestTaskUnassign(t *testing.T) {
	five := int64(5)
	task := &Task{Status: TaskStatusInProgress, TechnicianID: &five}

	task.Unassign()

	assert.Equal(t, TaskStatusUnassigned, task.Status)
	assert.Nil(t, task.TechnicianID)
}

func TestTaskPredicates(t *testing.T) {
	assert.True(t, (&Task{Status: TaskStatusUnassigned}).CanBeAssigned())
	assert.True(t, (&Task{Status: TaskStatusAssigned}).CanBeAssigned())
	assert.False(t, (&Task{Status: TaskStatusInProgress}).CanBeAssigned())
	assert.False(t, (&Task{Status: TaskStatusCompleted}).CanBeAssigned())

	assert.False(t, (&Task{Status: TaskStatusUnassigned}).CanBeReassigned())
	assert.True(t, (&Task{Status: TaskStatusAssigned}).CanBeReassigned())
	assert.True(t, (&Task{Status: TaskStatusInProgress}).CanBeReassigned())
	assert.False(t, (&Task{Status: TaskStatusCompleted}).CanBeReassigned())
}

func TestTaskStatusIsValid(t *testing.T) {
	for _, status := range []TaskStatus{TaskStatusUnassigned, TaskStatusAssigned, TaskStatusInProgress, TaskStatusCompleted} {
		assert.True(t, status.IsValid())
	}
	assert.False(t, TaskStatus("DONE").IsValid())
	assert.False(t, TaskStatus("").IsValid())
}

func TestTaskPriorityIsValid(t *testing.T) {
	for _, priority := range []TaskPriority{TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow} {
		assert.True(t, priority.IsValid())
	}
	assert.False(t, TaskPriority("urgent").IsValid())
}
