package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"taskbook_api/internal/domain"
	"taskbook_api/internal/repository"

	"github.com/gin-gonic/gin"
)

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

// UpdateTaskRequest leaves omitted fields untouched. Only description may be
// set to null; title and completed are NOT NULL columns.
type UpdateTaskRequest struct {
	Title       domain.Optional[string] `json:"title"`
	Description domain.Optional[string] `json:"description"`
	Completed   domain.Optional[bool]   `json:"completed"`
}

func (r UpdateTaskRequest) patch() (domain.TaskPatch, error) {
	if r.Title.Set && r.Title.Value == nil {
		return domain.TaskPatch{}, errors.New("title may not be null")
	}
	if r.Completed.Set && r.Completed.Value == nil {
		return domain.TaskPatch{}, errors.New("completed may not be null")
	}
	return domain.TaskPatch{
		Title:       r.Title.Value,
		Description: r.Description,
		Completed:   r.Completed.Value,
	}, nil
}

type listTasksQuery struct {
	Skip      int    `form:"skip" binding:"min=0"`
	Limit     *int   `form:"limit" binding:"omitempty,min=0"`
	Completed *bool  `form:"completed"`
	Title     string `form:"title"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

func (h *Handler) CreateTask(c *gin.Context) {
	owner, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task := &domain.Task{
		UserID:      owner,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if err := h.Tasks.Create(c.Request.Context(), task); err != nil {
		writeError(c, err, "Task not found")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c *gin.Context) {
	owner, ok := mustUserID(c)
	if !ok {
		return
	}
	var q listTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	tasks, err := h.Tasks.List(c.Request.Context(), owner, repository.TaskFilter{
		Skip:      q.Skip,
		Limit:     q.Limit,
		Completed: q.Completed,
		Title:     q.Title,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		writeError(c, err, "Task not found")
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	owner, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	task, err := h.Tasks.Get(c.Request.Context(), owner, id)
	if err != nil {
		writeError(c, err, "Task not found")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	owner, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	patch, err := req.patch()
	if err != nil {
		badRequest(c, err)
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), owner, id, patch)
	if err != nil {
		writeError(c, err, "Task not found")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) CompleteTask(c *gin.Context) {
	owner, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Tasks.Complete(c.Request.Context(), owner, id); err != nil {
		writeError(c, err, "Task not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task marked as completed"})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	owner, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), owner, id); err != nil {
		writeError(c, err, "Task not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Task with id %d deleted successfully", id)})
}
