package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"taskbook_api/internal/logger"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SchemaCheck returns the required tables that are missing.
type SchemaCheck func(ctx context.Context) ([]string, error)

type HealthHandler struct {
	db     Pinger
	schema SchemaCheck
}

func NewHealthHandler(db Pinger, schema SchemaCheck) *HealthHandler {
	return &HealthHandler{db: db, schema: schema}
}

// Liveness only reports that the process is serving.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Health answers like the original service once the database is reachable.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.WithContext(ctx).Warn("health: database unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ARG API Server is running!"})
}

// Readiness requires a reachable database with the users, books and tasks
// tables in place.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
		return
	}
	if h.schema != nil {
		missing, err := h.schema(ctx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "schema": err.Error()})
			return
		}
		if len(missing) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"schema": "missing tables: " + strings.Join(missing, ", "),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
