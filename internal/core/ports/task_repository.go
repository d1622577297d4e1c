package ports

import (
	"context"
	"time"

	"github.com/workhub/collab-api/internal/core/domain"
)

// ListTasksFilter carries all query parameters for listing tasks.
// OwnerID is always enforced by the service layer: empty = no filter
// (admin); non-empty = scoped to that owner.
type ListTasksFilter struct {
	OwnerID string
	Status  domain.TaskStatus // optional
	Page    int               // 1-based
	Limit   int               // capped at 100 by the service
}

// TaskPatch holds the fields of a task update. Nil fields are left
// untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	DueDate     *time.Time
}

// TaskRepository defines persistence for tasks. Every method taking an
// ownerID folds it into the query filter when non-empty, so an update or
// delete against a record outside the caller's scope is a single
// conditional write that simply matches nothing.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Find(ctx context.Context, ownerID, id string) (*domain.Task, error)
	// List returns a page of tasks ordered by due date ascending, tasks
	// without a due date last, plus the total count for the filter.
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)
	Update(ctx context.Context, ownerID, id string, patch TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
}
