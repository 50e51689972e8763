package service

import (
	"context"
	"fmt"
	"tasktrack/internal/common"
	"tasktrack/internal/domain/model"
	"tasktrack/internal/domain/repository"

	"github.com/google/uuid"
)

type TaskService struct {
	taskRepo repository.TaskRepository
}

func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// canAccess is the per-task access rule: admins bypass ownership, everyone
// else must own the task.
func canAccess(requesterID, requesterRole, ownerID string) bool {
	return requesterRole == model.RoleAdmin || requesterID == ownerID
}

func (s *TaskService) CreateTask(ctx context.Context, requesterID string, req CreateTaskRequest) (*model.Task, error) {
	if req.Title == "" {
		return nil, common.Errorf("title is required: %w", common.ErrBadRequest)
	}

	task := &model.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		OwnerID:     requesterID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListTasks returns all tasks with owner projections for admins, and only
// the requester's own tasks otherwise.
func (s *TaskService) ListTasks(ctx context.Context, requesterID, requesterRole string) ([]model.Task, error) {
	if requesterRole == model.RoleAdmin {
		tasks, err := s.taskRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		return tasks, nil
	}
	tasks, err := s.taskRepo.ListByOwner(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, requesterID, requesterRole, taskID string) (*model.Task, error) {
	// Existence is checked before ownership so a missing task reads the
	// same for every caller.
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !canAccess(requesterID, requesterRole, task.OwnerID) {
		return nil, common.ErrForbidden
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, requesterID, requesterRole, taskID string, req UpdateTaskRequest) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !canAccess(requesterID, requesterRole, task.OwnerID) {
		return nil, common.ErrForbidden
	}

	// Only supplied fields change.
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, requesterID, requesterRole, taskID string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !canAccess(requesterID, requesterRole, task.OwnerID) {
		return common.ErrForbidden
	}
	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
