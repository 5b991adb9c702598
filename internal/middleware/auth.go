package middleware

import (
	"net/http"

	"funddesk/internal/models"
	"funddesk/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "CurrentUser"

// RequireAuth rejects requests without a logged-in session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if sess.Get("user_id") == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireRole gates a route to the given roles.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		sess := sessions.Default(c)
		roleStr, ok := sess.Get("role").(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if _, ok := roleSet[models.UserRole(roleStr)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

// InjectUser loads the session's user from the store and puts it on the
// request context for handlers.
func InjectUser(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uidRaw := sess.Get("user_id"); uidRaw != nil {
			if uid, ok := uidRaw.(uint); ok && uid > 0 {
				if user, err := auth.GetUser(uid); err == nil {
					c.Set(currentUserKey, user)
				}
			}
		}

		c.Next()
	}
}

// CurrentUser returns the user placed on the context by InjectUser.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}
