package middleware

import (
	"net/http"

	"asset-lending/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth needs a session whose user still exists and is active.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Status != models.UserActive {
			sess := sessions.Default(c)
			sess.Clear()
			_ = sess.Save()

			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole checks the role of the loaded user, not the cookie, so role
// changes apply on the next request.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.String(http.StatusForbidden, "access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}
