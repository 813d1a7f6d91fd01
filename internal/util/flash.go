package util

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// One-shot flash message carried across a redirect in a short-lived cookie.
// Categories follow the templates: success / warning / danger / info.

const flashCookie = "ms_flash"

// SetFlash queues a flash message for the next rendered page.
func SetFlash(c *gin.Context, category, message string) {
	c.SetCookie(flashCookie, category+"|"+message, 60, "/", "", false, true)
}

// PopFlash returns the pending flash message, if any, and clears it.
func PopFlash(c *gin.Context) (message, category string) {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return "", ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	parts := strings.SplitN(raw, "|", 2)
	if len(parts) != 2 {
		return raw, "info"
	}
	return parts[1], parts[0]
}
