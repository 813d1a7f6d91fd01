package handler

import (
	"net/http"
	"strings"

	"media-share/internal/models"
	"media-share/internal/session"
	"media-share/internal/storage"
	"media-share/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfileHandler 负责个人资料相关接口
type ProfileHandler struct {
	DB         *gorm.DB
	Store      *storage.Store
	Sessions   *session.Manager
	BcryptCost int
}

func NewProfileHandler(db *gorm.DB, store *storage.Store, sessions *session.Manager, bcryptCost int) *ProfileHandler {
	return &ProfileHandler{
		DB:         db,
		Store:      store,
		Sessions:   sessions,
		BcryptCost: bcryptCost,
	}
}

// ---------- PROFILE ----------

// ProfilePage is public; anyone can look at a profile.
func (h *ProfileHandler) ProfilePage(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	if err := h.DB.Where("username = ?", username).First(&user).Error; err != nil {
		c.String(http.StatusNotFound, "user not found")
		return
	}

	var uploads []models.Upload
	_ = h.DB.Where("user_id = ?", user.ID).Order("id DESC").Find(&uploads).Error

	sess := session.FromContext(c)
	render(c, "profile.html", gin.H{
		"User":    user,
		"Uploads": uploads,
		"IsOwner": sess.Authenticated() && sess.Username == user.Username,
	})
}

// ProfileUpdate changes bio or avatar. Only the profile owner may post.
func (h *ProfileHandler) ProfileUpdate(c *gin.Context) {
	current, ok := RequireUser(c, h.DB)
	if !ok {
		return
	}

	username := c.Param("username")
	if current.Username != username {
		util.SetFlash(c, "danger", "You can only edit your own profile.")
		c.Redirect(http.StatusFound, "/profile/"+username)
		return
	}

	// avatar takes precedence when both parts are present, as the form
	// only ever submits one
	if fh, err := c.FormFile("avatar"); err == nil && fh.Filename != "" {
		filename, err := h.Store.SaveAvatar(fh)
		if err == storage.ErrInvalidType {
			util.SetFlash(c, "danger", "Invalid file type. Please upload an image.")
			c.Redirect(http.StatusFound, "/profile/"+username)
			return
		}
		if err != nil {
			util.SetFlash(c, "danger", "Avatar upload failed, please try again.")
			c.Redirect(http.StatusFound, "/profile/"+username)
			return
		}
		if err := h.DB.Model(current).Update("avatar", filename).Error; err != nil {
			util.SetFlash(c, "danger", "Avatar upload failed, please try again.")
			c.Redirect(http.StatusFound, "/profile/"+username)
			return
		}
		util.SetFlash(c, "success", "Avatar updated!")
		c.Redirect(http.StatusFound, "/profile/"+username)
		return
	}

	if bio, present := c.GetPostForm("bio"); present {
		if err := h.DB.Model(current).Update("bio", strings.TrimSpace(bio)).Error; err != nil {
			util.SetFlash(c, "danger", "Update failed, please try again.")
			c.Redirect(http.StatusFound, "/profile/"+username)
			return
		}
		util.SetFlash(c, "success", "Bio updated!")
	}
	c.Redirect(http.StatusFound, "/profile/"+username)
}

// ---------- UPLOAD AVATAR ----------

// UploadAvatar sets the profile picture from the dashboard form.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	user, ok := RequireUser(c, h.DB)
	if !ok {
		return
	}

	fh, err := c.FormFile("avatar")
	if err != nil || fh.Filename == "" {
		util.SetFlash(c, "warning", "No file selected!")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	filename, err := h.Store.SaveAvatar(fh)
	if err == storage.ErrInvalidType {
		util.SetFlash(c, "danger", "Invalid file type. Please upload an image.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	if err != nil {
		util.SetFlash(c, "danger", "Avatar upload failed, please try again.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	if err := h.DB.Model(user).Update("avatar", filename).Error; err != nil {
		util.SetFlash(c, "danger", "Avatar upload failed, please try again.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	util.SetFlash(c, "success", "Profile picture updated!")
	c.Redirect(http.StatusFound, "/dashboard")
}

// ---------- CHANGE PASSWORD ----------

// ChangePasswordPage 修改密码页面
func (h *ProfileHandler) ChangePasswordPage(c *gin.Context) {
	user, ok := RequireUser(c, h.DB)
	if !ok {
		return
	}
	render(c, "change_password.html", gin.H{"User": user})
}

// ChangePassword verifies the current password before applying the policy
// to the new one.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user, ok := RequireUser(c, h.DB)
	if !ok {
		return
	}

	currentPassword := c.PostForm("current_password")
	newPassword := c.PostForm("new_password")

	if ok, reason := util.ValidatePassword(newPassword); !ok {
		util.SetFlash(c, "danger", reason)
		c.Redirect(http.StatusFound, "/change_password")
		return
	}

	if !util.CheckPassword(currentPassword, user.PasswordHash) {
		util.SetFlash(c, "danger", "Wrong current password!")
		c.Redirect(http.StatusFound, "/change_password")
		return
	}

	hash, err := util.HashPassword(newPassword, h.BcryptCost)
	if err != nil {
		util.SetFlash(c, "danger", "Password change failed, please try again.")
		c.Redirect(http.StatusFound, "/change_password")
		return
	}
	if err := h.DB.Model(user).Update("password_hash", hash).Error; err != nil {
		util.SetFlash(c, "danger", "Password change failed, please try again.")
		c.Redirect(http.StatusFound, "/change_password")
		return
	}

	util.SetFlash(c, "success", "Password updated successfully!")
	c.Redirect(http.StatusFound, "/profile/"+user.Username)
}

// ---------- CHANGE USERNAME ----------

// ChangeUsernamePage 修改用户名页面
func (h *ProfileHandler) ChangeUsernamePage(c *gin.Context) {
	user, ok := RequireUser(c, h.DB)
	if !ok {
		return
	}
	render(c, "change_username.html", gin.H{"User": user})
}

// ChangeUsername renames the account and refreshes the session's cached name.
func (h *ProfileHandler) ChangeUsername(c *gin.Context) {
	user, ok := RequireUser(c, h.DB)
	if !ok {
		return
	}

	newUsername := strings.TrimSpace(c.PostForm("new_username"))
	if err := util.ValidateUsername(newUsername); err != nil {
		util.SetFlash(c, "danger", "Username must be 3-20 letters, digits or underscores.")
		c.Redirect(http.StatusFound, "/change_username")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("username = ?", newUsername).
		Count(&count).Error; err != nil {
		util.SetFlash(c, "danger", "Username change failed, please try again.")
		c.Redirect(http.StatusFound, "/change_username")
		return
	}
	if count > 0 {
		util.SetFlash(c, "danger", "That username is already taken!")
		c.Redirect(http.StatusFound, "/change_username")
		return
	}

	if err := h.DB.Model(user).Update("username", newUsername).Error; err != nil {
		util.SetFlash(c, "danger", "Username change failed, please try again.")
		c.Redirect(http.StatusFound, "/change_username")
		return
	}
	_ = h.Sessions.Touch(session.FromContext(c), newUsername)

	util.SetFlash(c, "success", "Username updated successfully!")
	c.Redirect(http.StatusFound, "/profile/"+newUsername)
}
