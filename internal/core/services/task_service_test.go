package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskward/api/internal/core/domain"
	"github.com/taskward/api/internal/core/ports"
)

// fakeTaskRepository keeps tasks in memory and applies the same
// owner scoping the Postgres repository does.
type fakeTaskRepository struct {
	tasks map[uuid.UUID]*domain.Task
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{tasks: map[uuid.UUID]*domain.Task{}}
}

func (f *fakeTaskRepository) Save(_ context.Context, task *domain.Task) error {
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepository) GetByID(_ context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepository) List(_ context.Context, ownerID uuid.UUID, filter ports.TaskFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range f.tasks {
		if task.UserID != ownerID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTaskRepository) Update(_ context.Context, task *domain.Task) error {
	existing, ok := f.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return domain.ErrTaskNotFound
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepository) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	task, ok := f.tasks[id]
	if !ok || task.UserID != ownerID {
		return domain.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func TestTaskCreateDefaults(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepository())
	owner := uuid.New()

	task, err := svc.Create(context.Background(), owner, ports.CreateTaskInput{Title: "T"})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, owner, task.UserID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestTaskCreateValidation(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepository())
	owner := uuid.New()

	_, err := svc.Create(context.Background(), owner, ports.CreateTaskInput{Title: "  "})
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "title")

	_, err = svc.Create(context.Background(), owner, ports.CreateTaskInput{Title: "T", Status: "done"})
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "status")

	_, err = svc.Create(context.Background(), owner, ports.CreateTaskInput{Title: "T", Priority: "urgent"})
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "priority")
}

func TestTaskOwnerIsolation(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepository())
	alice := uuid.New()
	bob := uuid.New()

	task, err := svc.Create(context.Background(), alice, ports.CreateTaskInput{Title: "Alice's task"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), bob, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	title := "hijacked"
	_, err = svc.Update(context.Background(), bob, task.ID, ports.UpdateTaskInput{Title: &title}, true)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = svc.Delete(context.Background(), bob, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = svc.Complete(context.Background(), bob, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = svc.Reopen(context.Background(), bob, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	tasks, err := svc.List(context.Background(), bob, ports.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskCompleteAndReopen(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepository())
	owner := uuid.New()

	task, err := svc.Create(context.Background(), owner, ports.CreateTaskInput{Title: "T"})
	require.NoError(t, err)

	completed, err := svc.Complete(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	// Re-completing resets the timestamp, no error.
	again, err := svc.Complete(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, again.Status)
	require.NotNil(t, again.CompletedAt)

	reopened, err := svc.Reopen(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)
}

func TestTaskUpdatePartialKeepsOtherFields(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepository())
	owner := uuid.New()

	due := time.Now().Add(48 * time.Hour)
	task, err := svc.Create(context.Background(), owner, ports.CreateTaskInput{
		Title:       "Original",
		Description: "desc",
		Priority:    "high",
		DueDate:     &due,
	})
	require.NoError(t, err)

	title := "Renamed"
	updated, err := svc.Update(context.Background(), owner, task.ID, ports.UpdateTaskInput{Title: &title}, true)
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, domain.TaskPriorityHigh, updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt) || updated.UpdatedAt.Equal(task.UpdatedAt))
}

// A full update with omitted optional fields leaves them untouched;
// PUT differs from PATCH only in title being required.
func TestTaskUpdateFullKeepsOmittedOptionalFields(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepository())
	owner := uuid.New()

	due := time.Now().Add(48 * time.Hour)
	task, err := svc.Create(context.Background(), owner, ports.CreateTaskInput{
		Title:       "Original",
		Description: "keep me",
		Status:      "in_progress",
		Priority:    "high",
		DueDate:     &due,
	})
	require.NoError(t, err)

	title := "Replaced"
	updated, err := svc.Update(context.Background(), owner, task.ID, ports.UpdateTaskInput{Title: &title}, false)
	require.NoError(t, err)

	assert.Equal(t, "Replaced", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
	assert.Equal(t, domain.TaskPriorityHigh, updated.Priority)
	require.NotNil(t, updated.DueDate)
}

func TestTaskUpdateExplicitNullClearsDueDate(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepository())
	owner := uuid.New()

	due := time.Now().Add(48 * time.Hour)
	task, err := svc.Create(context.Background(), owner, ports.CreateTaskInput{Title: "T", DueDate: &due})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), owner, task.ID, ports.UpdateTaskInput{DueDateSet: true}, true)
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestTaskUpdateRequiresTitleOnFullUpdate(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepository())
	owner := uuid.New()

	task, err := svc.Create(context.Background(), owner, ports.CreateTaskInput{Title: "T"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), owner, task.ID, ports.UpdateTaskInput{}, false)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "title")
}

func TestTaskUpdateStatusDoesNotTouchCompletedAt(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepository())
	owner := uuid.New()

	task, err := svc.Create(context.Background(), owner, ports.CreateTaskInput{Title: "T"})
	require.NoError(t, err)

	status := "completed"
	updated, err := svc.Update(context.Background(), owner, task.ID, ports.UpdateTaskInput{Status: &status}, true)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	assert.Nil(t, updated.CompletedAt)
}

func TestTaskListFilterComposition(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepository())
	owner := uuid.New()

	_, err := svc.Create(context.Background(), owner, ports.CreateTaskInput{Title: "match", Status: "pending", Priority: "high"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), owner, ports.CreateTaskInput{Title: "no match", Status: "pending", Priority: "low"})
	require.NoError(t, err)

	tasks, err := svc.List(context.Background(), owner, ports.TaskFilter{
		Status:   domain.TaskStatusPending,
		Priority: domain.TaskPriorityHigh,
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "match", tasks[0].Title)
}

func TestTaskListRejectsUnknownFilterValues(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepository())
	owner := uuid.New()

	_, err := svc.List(context.Background(), owner, ports.TaskFilter{Status: "archived"})
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "status")
}
