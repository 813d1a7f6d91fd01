package middleware

import (
	"media-share/internal/models"
	"media-share/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditMiddleware records requests made by logged-in users.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		sess := session.FromContext(c)
		if !sess.Authenticated() {
			return
		}

		log := models.AuditLog{
			UserID:    sess.UserID,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Status:    c.Writer.Status(),
		}
		_ = db.Create(&log).Error
	}
}
