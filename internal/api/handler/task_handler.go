package handler

import (
	"encoding/json"
	"net/http"
	"tasktrack/internal/api/middleware"
	"tasktrack/internal/app/service"
	"tasktrack/internal/common"
	"tasktrack/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.createTask)
	r.Get("/", h.listTasks)
	r.Get("/{taskID}", h.getTask)
	r.Patch("/{taskID}", h.updateTask)
	r.Delete("/{taskID}", h.deleteTask)
}

type taskResponse struct {
	Success bool        `json:"success"`
	Task    *model.Task `json:"task"`
}

type taskListResponse struct {
	Success bool         `json:"success"`
	Tasks   []model.Task `json:"tasks"`
}

type taskDeletedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *TaskHandler) createTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing identity context")
		return
	}

	var req service.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), identity.ID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.HTTPMessageFromError(err))
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, taskResponse{Success: true, Task: task})
}

func (h *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing identity context")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), identity.ID, identity.Role)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.HTTPMessageFromError(err))
		return
	}
	common.RespondWithJSON(w, http.StatusOK, taskListResponse{Success: true, Tasks: tasks})
}

func (h *TaskHandler) getTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing identity context")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), identity.ID, identity.Role, chi.URLParam(r, "taskID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.HTTPMessageFromError(err))
		return
	}
	common.RespondWithJSON(w, http.StatusOK, taskResponse{Success: true, Task: task})
}

func (h *TaskHandler) updateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing identity context")
		return
	}

	var req service.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), identity.ID, identity.Role, chi.URLParam(r, "taskID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.HTTPMessageFromError(err))
		return
	}
	common.RespondWithJSON(w, http.StatusOK, taskResponse{Success: true, Task: task})
}

func (h *TaskHandler) deleteTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing identity context")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), identity.ID, identity.Role, chi.URLParam(r, "taskID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.HTTPMessageFromError(err))
		return
	}
	common.RespondWithJSON(w, http.StatusOK, taskDeletedResponse{Success: true, Message: "Task deleted successfully"})
}
