package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskward/api/internal/core/domain"
)

// TaskFilter narrows an owner-scoped listing. Zero values mean "no
// filter"; populated fields combine with logical AND.
type TaskFilter struct {
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	Title       string
	Description string
}

type TaskRepository interface {
	Save(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// UpdateTaskInput distinguishes absent fields (nil) from provided ones
// so the same struct serves full and partial updates. created_at,
// updated_at and completed_at are not represented here: client input
// for them is dropped at the handler boundary.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	DueDateSet  bool
}

type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateTaskInput, partial bool) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	Complete(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
	Reopen(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
}
