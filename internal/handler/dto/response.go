package dto

import (
	"time"

	"github.com/fieldops/dispatchd/internal/domain"
)

// TaskResponse represents a task in list and detail views.
type TaskResponse struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ClientAddress     string    `json:"client_address"`
	Priority          string    `json:"priority"`
	EstimatedDuration *int      `json:"estimated_duration"`
	Status            string    `json:"status"`
	TechnicianID      *int64    `json:"technician_id"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// TaskDetailResponse represents full task details with its audit trail.
type TaskDetailResponse struct {
	Task    TaskResponse            `json:"task"`
	History []AssignmentHistoryInfo `json:"history"`
}

// AssignmentResponse represents an assignment binding.
type AssignmentResponse struct {
	ID           int64     `json:"id"`
	TaskID       int64     `json:"task_id"`
	TechnicianID int64     `json:"technician_id"`
	AssignedBy   string    `json:"assigned_by"`
	AssignedAt   time.Time `json:"assigned_at"`
	Status       string    `json:"status"`
	Reason       *string   `json:"reason"`
}

// AssignmentHistoryInfo represents one audit trail entry.
type AssignmentHistoryInfo struct {
	ID                   int64     `json:"id"`
	AssignmentID         int64     `json:"assignment_id"`
	TechnicianID         int64     `json:"technician_id"`
	PreviousTechnicianID *int64    `json:"previous_technician_id"`
	Action               string    `json:"action"`
	Actor                string    `json:"actor"`
	Reason               *string   `json:"reason"`
	CreatedAt            time.Time `json:"created_at"`
}

// TechnicianResponse represents a technician.
type TechnicianResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// StatsResponse represents dispatch statistics.
type StatsResponse struct {
	TotalTasks      int               `json:"total_tasks"`
	TasksByStatus   map[string]int    `json:"tasks_by_status"`
	TasksByPriority map[string]int    `json:"tasks_by_priority"`
	Technicians     []TechnicianStats `json:"technicians"`
}

// TechnicianStats represents statistics for a single technician.
type TechnicianStats struct {
	TechnicianID     int64  `json:"technician_id"`
	TechnicianName   string `json:"technician_name"`
	TasksAssigned    int    `json:"tasks_assigned"`
	TasksInProgress  int    `json:"tasks_in_progress"`
	TasksCompleted   int    `json:"tasks_completed"`
	ReassignmentsOff int    `json:"reassignments_off"`
}

// ToTaskResponse converts domain.Task to TaskResponse.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:                task.ID,
		Title:             task.Title,
		Description:       task.Description,
		ClientAddress:     task.ClientAddress,
		Priority:          string(task.Priority),
		EstimatedDuration: task.EstimatedDuration,
		Status:            string(task.Status),
		TechnicianID:      task.TechnicianID,
		CreatedBy:         task.CreatedBy,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}
}

// ToAssignmentResponse converts domain.Assignment to AssignmentResponse.
func ToAssignmentResponse(a *domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:           a.ID,
		TaskID:       a.TaskID,
		TechnicianID: a.TechnicianID,
		AssignedBy:   a.AssignedBy,
		AssignedAt:   a.AssignedAt,
		Status:       string(a.Status),
		Reason:       a.Reason,
	}
}

// ToAssignmentHistoryInfo converts a history record for responses.
func ToAssignmentHistoryInfo(h *domain.AssignmentHistory) AssignmentHistoryInfo {
	return AssignmentHistoryInfo{
		ID:                   h.ID,
		AssignmentID:         h.AssignmentID,
		TechnicianID:         h.TechnicianID,
		PreviousTechnicianID: h.PreviousTechnicianID,
		Action:               string(h.Action),
		Actor:                h.Actor,
		Reason:               h.Reason,
		CreatedAt:            h.CreatedAt,
	}
}

// ToTechnicianResponse converts domain.Technician to TechnicianResponse.
func ToTechnicianResponse(t *domain.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:       t.ID,
		Name:     t.Name,
		IsActive: t.IsActive,
	}
}
