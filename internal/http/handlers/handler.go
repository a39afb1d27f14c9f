package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"taskbook_api/internal/domain"
	"taskbook_api/internal/logger"
	"taskbook_api/internal/repository"
	"taskbook_api/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type BookStore interface {
	Create(ctx context.Context, b *domain.Book) error
	Get(ctx context.Context, owner, id int64) (*domain.Book, error)
	List(ctx context.Context, owner int64, f repository.BookFilter) ([]*domain.Book, error)
	Delete(ctx context.Context, owner, id int64) error
}

type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	Get(ctx context.Context, owner, id int64) (*domain.Task, error)
	List(ctx context.Context, owner int64, f repository.TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, owner, id int64, p domain.TaskPatch) (*domain.Task, error)
	Complete(ctx context.Context, owner, id int64) error
	Delete(ctx context.Context, owner, id int64) error
}

type Handler struct {
	Auth  AuthService
	Books BookStore
	Tasks TaskStore
}

func NewHandler(auth AuthService, books BookStore, tasks TaskStore) *Handler {
	return &Handler{Auth: auth, Books: books, Tasks: tasks}
}

// getUserID returns the owner resolved by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// mustUserID aborts with 401 when the route is missing the JWT middleware.
func mustUserID(c *gin.Context) (int64, bool) {
	id, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
	}
	return id, ok
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "id must be an integer"})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}

// writeError maps service and repository errors to responses. notFound is the
// detail used for ErrNotFound, which also covers rows owned by another user.
func writeError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": notFound})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already taken"})
	case errors.Is(err, service.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid username or password"})
	default:
		logger.WithContext(c.Request.Context()).Error("request failed",
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}
