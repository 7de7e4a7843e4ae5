package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignmentMarkReassigned(t *testing.T) {
	a := &Assignment{Status: AssignmentStatusActive}

	a.MarkReassigned("tech unavailable")

	assert.Equal(t, AssignmentStatusReassigned, a.Status)
	if assert.NotNil(t, a.Reason) {
		assert.Equal(t, "tech unavailable", *a.Reason)
	}
}

func TestAssignmentComplete(t *testing.T) {
	a := &Assignment{Status: AssignmentStatusActive}

	a.Complete()

	assert.Equal(t, AssignmentStatusCompleted, a.Status)
	assert.Nil(t, a.Reason)
}

func TestAssignmentCancel(t *testing.T) {
	a := &Assignment{Status: AssignmentStatusActive}

	a.Cancel("customer rescheduled")

	assert.Equal(t, AssignmentStatusCancelled, a.Status)
	if assert.NotNil(t, a.Reason) {
		assert.Equal(t, "customer rescheduled", *a.Reason)
	}
}

func TestAssignmentTerminalStatesAreImmutable(t *testing.T) {
	// Calling a transition twice has no further effect; callers must check
	// the resulting status rather than trust success.
	for _, terminal := range []AssignmentStatus{
		AssignmentStatusReassigned,
		AssignmentStatusCompleted,
		AssignmentStatusCancelled,
	} {
		a := &Assignment{Status: terminal}

		a.MarkReassigned("again")
		assert.Equal(t, terminal, a.Status)
		assert.Nil(t, a.Reason)

		a.Complete()
		assert.Equal(t, terminal, a.Status)

		a.Cancel("again")
		assert.Equal(t, terminal, a.Status)
		assert.Nil(t, a.Reason)
	}
}

func TestAssignmentIsActive(t *testing.T) {
	assert.True(t, (&Assignment{Status: AssignmentStatusActive}).IsActive())
	assert.False(t, (&Assignment{Status: AssignmentStatusReassigned}).IsActive())
	assert.False(t, (&Assignment{Status: AssignmentStatusCompleted}).IsActive())
	assert.False(t, (&Assignment{Status: AssignmentStatusCancelled}).IsActive())
}

func TestAssignmentStatusIsValid(t *testing.T) {
	for _, status := range []AssignmentStatus{
		AssignmentStatusActive,
		AssignmentStatusReassigned,
		AssignmentStatusCompleted,
		AssignmentStatusCancelled,
	} {
		assert.True(t, status.IsValid())
	}
	assert.False(t, AssignmentStatus("SUPERSEDED").IsValid())
}
