package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fieldops/dispatchd/internal/config"
	"github.com/fieldops/dispatchd/internal/domain"
	"github.com/fieldops/dispatchd/internal/handler/dto"
	"github.com/fieldops/dispatchd/internal/middleware"
	"github.com/fieldops/dispatchd/internal/repository"
	"github.com/fieldops/dispatchd/internal/service"
)

// handleCreateTask creates a new task in UNASSIGNED status.
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_ACTOR", "Actor identity required")
		return
	}

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	priority := domain.TaskPriorityMedium
	if req.Priority != "" {
		priority = domain.TaskPriority(req.Priority)
		if !priority.IsValid() {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "priority must be 'HIGH', 'MEDIUM', or 'LOW'")
			return
		}
	}

	task, err := h.assignmentService.CreateTask(ctx, service.CreateTaskParams{
		Title:             req.Title,
		Description:       req.Description,
		ClientAddress:     req.ClientAddress,
		Priority:          priority,
		EstimatedDuration: req.EstimatedDuration,
		CreatedBy:         actor,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// handleGetTask retrieves task details with the assignment audit trail.
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	history, err := h.historyRepo.GetByTaskID(ctx, taskID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch history")
		return
	}

	response := dto.TaskDetailResponse{
		Task:    dto.ToTaskResponse(task),
		History: make([]dto.AssignmentHistoryInfo, len(history)),
	}
	for i, record := range history {
		response.History[i] = dto.ToAssignmentHistoryInfo(record)
	}

	respondJSON(w, http.StatusOK, response)
}

// handleListTasks lists tasks filtered by status, priority and search term.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, ok := parseTaskFilter(w, r)
	if !ok {
		return
	}

	tasks, total, err := h.taskRepo.List(ctx, filter)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	response := dto.TasksListResponse{
		Tasks:  make([]dto.TaskResponse, len(tasks)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i, task := range tasks {
		response.Tasks[i] = dto.ToTaskResponse(task)
	}

	respondJSON(w, http.StatusOK, response)
}

// handleListTechnicians lists all technicians.
func (h *Handler) handleListTechnicians(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	technicians, err := h.technicianRepo.List(ctx)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	response := make([]dto.TechnicianResponse, len(technicians))
	for i, t := range technicians {
		response[i] = dto.ToTechnicianResponse(t)
	}

	respondJSON(w, http.StatusOK, response)
}

// parseTaskFilter builds a TaskFilter from query parameters. Unknown enum
// values are rejected rather than silently matching nothing.
func parseTaskFilter(w http.ResponseWriter, r *http.Request) (repository.TaskFilter, bool) {
	q := r.URL.Query()
	filter := repository.TaskFilter{
		Search: q.Get("search"),
		Limit:  config.DefaultListLimit,
	}

	if raw := q.Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if !status.IsValid() {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid status filter")
			return filter, false
		}
		filter.Status = &status
	}

	if raw := q.Get("priority"); raw != "" {
		priority := domain.TaskPriority(raw)
		if !priority.IsValid() {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid priority filter")
			return filter, false
		}
		filter.Priority = &priority
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 200 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be between 1 and 200")
			return filter, false
		}
		filter.Limit = limit
	}

	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "offset must be non-negative")
			return filter, false
		}
		filter.Offset = offset
	}

	return filter, true
}
