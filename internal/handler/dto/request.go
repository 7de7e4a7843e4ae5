package dto

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	ClientAddress     string `json:"client_address"`
	Priority          string `json:"priority,omitempty"`
	EstimatedDuration *int   `json:"estimated_duration,omitempty"`
}

// AssignTaskRequest represents the request body for POST /tasks/:id/assign.
type AssignTaskRequest struct {
	TechnicianID int64 `json:"technician_id"`
}

// ReassignTaskRequest represents the request body for POST /tasks/:id/reassign.
type ReassignTaskRequest struct {
	TechnicianID int64  `json:"technician_id"`
	Reason       string `json:"reason"`
}

// CancelAssignmentRequest represents the request body for POST /tasks/:id/cancel.
type CancelAssignmentRequest struct {
	Reason string `json:"reason"`
}
