package middleware

import (
	"net/http"

	"media-share/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionMiddleware gives every request a server-side session, anonymous or
// authenticated, and puts it in the context. Unauthenticated like/view
// deduplication relies on the anonymous session existing.
func SessionMiddleware(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := mgr.Ensure(c)
		if err != nil {
			c.String(http.StatusInternalServerError, "session unavailable")
			c.Abort()
			return
		}
		c.Set(session.ContextKey, sess)
		c.Next()
	}
}
