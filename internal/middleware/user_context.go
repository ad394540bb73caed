package middleware

import (
	"asset-lending/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const currentUserKey = "CurrentUser"

func InjectUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get("user_id").(uint); ok && uid > 0 {
			var user models.User
			if err := db.WithContext(c.Request.Context()).First(&user, uid).Error; err == nil {
				c.Set(currentUserKey, user)
			}
		}

		c.Next()
	}
}

// CurrentUser returns the signed-in user loaded by InjectUser.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}
