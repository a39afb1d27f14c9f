package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"taskbook_api/internal/domain"
	"taskbook_api/internal/logger"
	"taskbook_api/internal/repository"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWT for downstream handlers.
const (
	UserIDKey = "user_id"
	UserKey   = "user"
)

type TokenVerifier interface {
	Verify(token string) (int64, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// JWT resolves the bearer token to a stored user or aborts the request.
func JWT(tokens TokenVerifier, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Vary", "Authorization")

		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "Not authenticated")
			return
		}

		userID, err := tokens.Verify(raw)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if errors.Is(err, repository.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		if err != nil {
			logger.WithContext(c.Request.Context()).Error("load token user", "user_id", userID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}
