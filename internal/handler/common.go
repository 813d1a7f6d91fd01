package handler

import (
	"net/http"
	"strconv"

	"media-share/internal/models"
	"media-share/internal/session"
	"media-share/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireUser is the capability check invoked at the top of every gated
// handler. A request that is anonymous or logged out is redirected to the
// login page with a warning, never a hard error.
func RequireUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	sess := session.FromContext(c)
	if !sess.Authenticated() {
		util.SetFlash(c, "warning", "Please login to continue.")
		c.Redirect(http.StatusFound, "/login")
		return nil, false
	}

	var user models.User
	if err := db.First(&user, *sess.UserID).Error; err != nil {
		// identity on the session no longer exists
		util.SetFlash(c, "warning", "Please login to continue.")
		c.Redirect(http.StatusFound, "/login")
		return nil, false
	}
	return &user, true
}

// render draws a template with the pending flash message and the session
// identity mixed in.
func render(c *gin.Context, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if msg, cat := util.PopFlash(c); msg != "" {
		data["Flash"] = msg
		data["FlashCategory"] = cat
	}
	if sess := session.FromContext(c); sess.Authenticated() {
		data["CurrentUsername"] = sess.Username
	}
	c.HTML(http.StatusOK, name, data)
}

// paramID parses a numeric :id path parameter.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
