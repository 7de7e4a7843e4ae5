package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fieldops/dispatchd/internal/handler/dto"
	"github.com/fieldops/dispatchd/internal/middleware"
)

// handleAssignTask assigns a technician to an UNASSIGNED task.
func (h *Handler) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_ACTOR", "Actor identity required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.TechnicianID <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "technician_id is required")
		return
	}

	assignment, err := h.assignmentService.Assign(ctx, taskID, req.TechnicianID, actor)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAssignmentResponse(assignment))
}

// handleReassignTask replaces the active assignment with a new technician.
func (h *Handler) handleReassignTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_ACTOR", "Actor identity required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.ReassignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.TechnicianID <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "technician_id is required")
		return
	}
	if req.Reason == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "reason is required")
		return
	}

	assignment, err := h.assignmentService.Reassign(ctx, taskID, req.TechnicianID, actor, req.Reason)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAssignmentResponse(assignment))
}

// handleStartTask moves an ASSIGNED task into execution.
func (h *Handler) handleStartTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_ACTOR", "Actor identity required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.assignmentService.Start(ctx, taskID, actor)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleCompleteTask completes an IN_PROGRESS task.
func (h *Handler) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_ACTOR", "Actor identity required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.assignmentService.Complete(ctx, taskID, actor)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleCancelAssignment withdraws the active assignment and returns the
// task to the assignable pool.
func (h *Handler) handleCancelAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := middleware.GetActorFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_ACTOR", "Actor identity required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.CancelAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.Reason == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "reason is required")
		return
	}

	if err := h.assignmentService.Cancel(ctx, taskID, actor, req.Reason); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
