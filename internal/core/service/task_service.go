package service

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/workhub/collab-api/internal/core/domain"
	"github.com/workhub/collab-api/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// TaskService implements owner-scoped task CRUD. Non-admin callers only
// ever see and touch their own tasks; a task outside the caller's scope is
// indistinguishable from a nonexistent one.
type TaskService struct {
	repo ports.TaskRepository
	log  zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, log: log}
}

// Create inserts a task owned by the caller. The owner is stamped from the
// identity unconditionally; a payload cannot create a task for someone else.
func (s *TaskService) Create(ctx context.Context, identity domain.Identity, input ports.CreateTaskInput) (*domain.Task, error) {
	status := input.Status
	if status == "" {
		status = domain.TaskPending
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidTaskStatus
	}

	task, err := s.repo.Create(ctx, &domain.Task{
		OwnerID:     identity.ID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		DueDate:     input.DueDate,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", task.ID).Str("owner_id", identity.ID).Msg("task created")
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, identity domain.Identity, id string) (*domain.Task, error) {
	return s.repo.Find(ctx, identity.ScopeOwner(), id)
}

// List returns a page of tasks within the caller's scope, ordered by due
// date ascending with undated tasks last.
func (s *TaskService) List(ctx context.Context, identity domain.Identity, input ports.ListTasksInput) (*ports.ListTasksResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	filter := ports.ListTasksFilter{
		OwnerID: identity.ScopeOwner(),
		Page:    page,
		Limit:   limit,
	}
	if input.Status != "" {
		status := domain.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidTaskStatus
		}
		filter.Status = status
	}

	tasks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListTasksResult{
		Tasks:      tasks,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Update applies a partial patch. The scoped lookup and the write are a
// single conditional operation in the repository, so ownership cannot be
// bypassed between check and mutation.
func (s *TaskService) Update(ctx context.Context, identity domain.Identity, id string, patch ports.TaskPatch) (*domain.Task, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.ErrInvalidTaskStatus
	}
	return s.repo.Update(ctx, identity.ScopeOwner(), id, patch)
}

func (s *TaskService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	if err := s.repo.Delete(ctx, identity.ScopeOwner(), id); err != nil {
		return err
	}
	s.log.Info().Str("task_id", id).Str("caller_id", identity.ID).Msg("task deleted")
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}
