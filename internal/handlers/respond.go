package handlers

import (
	"errors"
	"net/http"

	"funddesk/internal/middleware"
	"funddesk/internal/models"
	"funddesk/internal/services"
	"funddesk/internal/storage"

	"github.com/gin-gonic/gin"
)

// fail maps a service error onto the HTTP status taxonomy.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrRejected):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if ve, ok := services.IsValidation(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "code": ve.Code})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// actor returns the current user or aborts with 401.
func actor(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	return user, true
}
