package ports

import (
	"context"
	"time"

	"github.com/workhub/collab-api/internal/core/domain"
)

// CreateTaskInput carries the fields accepted when creating a task. The
// owner is always the authenticated caller, never part of the input.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus // optional, defaults to pending
	DueDate     *time.Time
}

// ListTasksInput carries the query parameters of the task list endpoint.
type ListTasksInput struct {
	Status string
	Page   int
	Limit  int
}

// ListTasksResult is one page of tasks.
type ListTasksResult struct {
	Tasks      []*domain.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TaskService defines owner-scoped task operations. All methods require an
// authenticated identity; admins operate on the full collection.
type TaskService interface {
	Create(ctx context.Context, identity domain.Identity, input CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, identity domain.Identity, id string) (*domain.Task, error)
	List(ctx context.Context, identity domain.Identity, input ListTasksInput) (*ListTasksResult, error)
	Update(ctx context.Context, identity domain.Identity, id string, patch TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, identity domain.Identity, id string) error
}
