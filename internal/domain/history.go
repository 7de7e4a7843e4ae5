package domain

import "time"

// HistoryAction represents the type of assignment lifecycle event.
type HistoryAction string

const (
	HistoryActionCreated    HistoryAction = "CREATED"
	HistoryActionReassigned HistoryAction = "REASSIGNED"
	HistoryActionCompleted  HistoryAction = "COMPLETED"
	HistoryActionCancelled  HistoryAction = "CANCELLED"
)

// AssignmentHistory is an immutable audit trail entry. One record is written
// per successful assignment command; records are never updated or deleted.
type AssignmentHistory struct {
	ID                   int64
	AssignmentID         int64
	TaskID               int64
	TechnicianID         int64
	PreviousTechnicianID *int64 // populated only for REASSIGNED
	Action               HistoryAction
	Actor                string
	Reason               *string
	CreatedAt            time.Time
}
