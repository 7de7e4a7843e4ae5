package handler

import (
	"net/http"

	"github.com/fieldops/dispatchd/internal/handler/dto"
)

// handleGetStats returns dispatch statistics: task counts by status and
// priority, plus per-technician workload derived from the audit trail.
func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dispatchStats, err := h.taskRepo.GetDispatchStats(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch stats")
		return
	}

	technicianStats, err := h.taskRepo.GetTechnicianStats(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch technician stats")
		return
	}

	response := dto.StatsResponse{
		TotalTasks:      dispatchStats.TotalTasks,
		TasksByStatus:   dispatchStats.TasksByStatus,
		TasksByPriority: dispatchStats.TasksByPriority,
		Technicians:     make([]dto.TechnicianStats, len(technicianStats)),
	}
	for i, ts := range technicianStats {
		response.Technicians[i] = dto.TechnicianStats{
			TechnicianID:     ts.TechnicianID,
			TechnicianName:   ts.TechnicianName,
			TasksAssigned:    ts.TasksAssigned,
			TasksInProgress:  ts.TasksInProgress,
			TasksCompleted:   ts.TasksCompleted,
			ReassignmentsOff: ts.ReassignmentsOff,
		}
	}

	respondJSON(w, http.StatusOK, response)
}
