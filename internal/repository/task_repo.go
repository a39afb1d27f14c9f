package repository

import (
	"context"

	"taskbook_api/internal/domain"
)

// DefaultTaskLimit applies when a task listing does not ask for a limit.
const DefaultTaskLimit = 10

var tasksTable = Table{
	Name:    "tasks",
	Columns: []string{"id", "user_id", "title", "description", "completed", "created_at"},
	Sortable: map[string]string{
		"id":          "id",
		"title":       "title",
		"description": "description",
		"completed":   "completed",
		"created_at":  "created_at",
	},
}

type TaskFilter struct {
	Skip      int
	Limit     *int
	Completed *bool
	Title     string
	SortBy    string
	SortOrder string
}

func (f TaskFilter) query() ListQuery {
	limit := DefaultTaskLimit
	if f.Limit != nil {
		limit = *f.Limit
	}
	var completed any
	if f.Completed != nil {
		completed = *f.Completed
	}
	return ListQuery{
		Filters: []Filter{
			{Column: "title", Op: Contains, Value: f.Title},
			{Column: "completed", Op: Equals, Value: completed},
		},
		SortBy:    f.SortBy,
		SortOrder: f.SortOrder,
		Offset:    f.Skip,
		Limit:     &limit,
	}
}

type TaskRepository struct {
	store *OwnedStore[domain.Task]
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{store: NewOwnedStore[domain.Task](db, tasksTable)}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	created, err := r.store.Insert(ctx, t.UserID, []Field{
		{"title", t.Title},
		{"description", t.Description},
		{"completed", t.Completed},
	})
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, owner, id int64) (*domain.Task, error) {
	return r.store.Get(ctx, owner, id)
}

func (r *TaskRepository) List(ctx context.Context, owner int64, f TaskFilter) ([]*domain.Task, error) {
	return r.store.List(ctx, owner, f.query())
}

// Update applies the fields present in p. A present nil description is stored as NULL.
func (r *TaskRepository) Update(ctx context.Context, owner, id int64, p domain.TaskPatch) (*domain.Task, error) {
	return r.store.Update(ctx, owner, id, patchFields(p))
}

func patchFields(p domain.TaskPatch) []Field {
	var fields []Field
	if p.Title != nil {
		fields = append(fields, Field{"title", *p.Title})
	}
	if p.Description.Set {
		fields = append(fields, Field{"description", p.Description.Value})
	}
	if p.Completed != nil {
		fields = append(fields, Field{"completed", *p.Completed})
	}
	return fields
}

// Complete marks the task done. Completing a completed task is not an error.
func (r *TaskRepository) Complete(ctx context.Context, owner, id int64) error {
	done := true
	_, err := r.Update(ctx, owner, id, domain.TaskPatch{Completed: &done})
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, owner, id int64) error {
	return r.store.Delete(ctx, owner, id)
}
