package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldops/dispatchd/internal/handler/dto"
	"github.com/fieldops/dispatchd/internal/middleware"
	"github.com/fieldops/dispatchd/internal/repository"
	"github.com/fieldops/dispatchd/internal/service"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool              *pgxpool.Pool
	assignmentService *service.AssignmentService
	taskRepo          *repository.TaskRepository
	assignmentRepo    *repository.AssignmentRepository
	historyRepo       *repository.HistoryRepository
	technicianRepo    *repository.TechnicianRepository
	actorMiddleware   *middleware.ActorMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool) *Handler {
	taskRepo := repository.NewTaskRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)
	technicianRepo := repository.NewTechnicianRepository(pool)

	assignmentService := service.NewAssignmentService(pool, taskRepo, assignmentRepo, historyRepo, technicianRepo)

	return &Handler{
		pool:              pool,
		assignmentService: assignmentService,
		taskRepo:          taskRepo,
		assignmentRepo:    assignmentRepo,
		historyRepo:       historyRepo,
		technicianRepo:    technicianRepo,
		actorMiddleware:   middleware.NewActorMiddleware(),
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	withActor := func(fn http.HandlerFunc) http.Handler {
		return h.actorMiddleware.RequireActor(fn)
	}

	mux.Handle("GET /api/v1/tasks", withActor(h.handleListTasks))
	mux.Handle("POST /api/v1/tasks", withActor(h.handleCreateTask))
	mux.Handle("GET /api/v1/tasks/{id}", withActor(h.handleGetTask))
	mux.Handle("POST /api/v1/tasks/{id}/assign", withActor(h.handleAssignTask))
	mux.Handle("POST /api/v1/tasks/{id}/reassign", withActor(h.handleReassignTask))
	mux.Handle("POST /api/v1/tasks/{id}/start", withActor(h.handleStartTask))
	mux.Handle("POST /api/v1/tasks/{id}/complete", withActor(h.handleCompleteTask))
	mux.Handle("POST /api/v1/tasks/{id}/cancel", withActor(h.handleCancelAssignment))
	mux.Handle("GET /api/v1/technicians", withActor(h.handleListTechnicians))
	mux.Handle("GET /api/v1/stats", withActor(h.handleGetStats))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractTaskID extracts and validates the numeric task ID path parameter.
// Returns (taskID, true) if valid, (0, false) if invalid (error already sent
// to client).
func extractTaskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id is required")
		return 0, false
	}

	taskID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || taskID <= 0 {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id must be a positive integer")
		return 0, false
	}

	return taskID, true
}
