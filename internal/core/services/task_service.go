package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskward/api/internal/core/domain"
	"github.com/taskward/api/internal/core/ports"
)

type taskService struct {
	repo ports.TaskRepository
}

func NewTaskService(repo ports.TaskRepository) ports.TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, input ports.CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	fields := map[string]string{}
	if title == "" {
		fields["title"] = "title is required"
	} else if len(title) > domain.MaxTaskTitleLength {
		fields["title"] = "title is too long"
	}

	status := domain.TaskStatusPending
	if input.Status != "" {
		status = domain.TaskStatus(input.Status)
		if !status.Valid() {
			fields["status"] = "status must be one of pending, in_progress, completed, cancelled"
		}
	}

	priority := domain.TaskPriorityMedium
	if input.Priority != "" {
		priority = domain.TaskPriority(input.Priority)
		if !priority.Valid() {
			fields["priority"] = "priority must be one of low, medium, high"
		}
	}

	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      ownerID,
	}
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

func (s *taskService) List(ctx context.Context, ownerID uuid.UUID, filter ports.TaskFilter) ([]*domain.Task, error) {
	fields := map[string]string{}
	if filter.Status != "" && !filter.Status.Valid() {
		fields["status"] = "status must be one of pending, in_progress, completed, cancelled"
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		fields["priority"] = "priority must be one of low, medium, high"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	return s.repo.List(ctx, ownerID, filter)
}

// Update applies a full (PUT) or partial (PATCH) update. The two modes
// differ only in title being required on a full update; omitted
// optional fields keep their stored values either way. Status changes
// through here are validated against the enum but never touch
// completed_at; only Complete and Reopen manage that timestamp.
func (s *taskService) Update(ctx context.Context, ownerID, id uuid.UUID, input ports.UpdateTaskInput, partial bool) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}

	if input.Title == nil && !partial {
		fields["title"] = "title is required"
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			fields["title"] = "title is required"
		} else if len(title) > domain.MaxTaskTitleLength {
			fields["title"] = "title is too long"
		} else {
			task.Title = title
		}
	}

	if input.Description != nil {
		task.Description = *input.Description
	}

	if input.Status != nil {
		status := domain.TaskStatus(*input.Status)
		if !status.Valid() {
			fields["status"] = "status must be one of pending, in_progress, completed, cancelled"
		} else {
			task.Status = status
		}
	}

	if input.Priority != nil {
		priority := domain.TaskPriority(*input.Priority)
		if !priority.Valid() {
			fields["priority"] = "priority must be one of low, medium, high"
		} else {
			task.Priority = priority
		}
	}

	if input.DueDateSet {
		task.DueDate = input.DueDate
	}

	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	task.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, id)
}

// Complete is idempotent in effect: re-completing just resets
// completed_at to the current server clock.
func (s *taskService) Complete(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task.Status = domain.TaskStatusCompleted
	task.CompletedAt = &now
	task.UpdatedAt = now
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Reopen resets the task to pending from any prior status.
func (s *taskService) Reopen(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatusPending
	task.CompletedAt = nil
	task.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}
