package handler

import (
	"net/http"

	"media-share/internal/models"
	"media-share/internal/storage"
	"media-share/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler 负责用户列表和管理员删号
type UserHandler struct {
	DB    *gorm.DB
	Store *storage.Store
}

func NewUserHandler(db *gorm.DB, store *storage.Store) *UserHandler {
	return &UserHandler{DB: db, Store: store}
}

// Users lists every account, publicly.
func (h *UserHandler) Users(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("id ASC").Find(&users).Error; err != nil {
		c.String(http.StatusInternalServerError, "could not load users")
		return
	}
	render(c, "users.html", gin.H{"Users": users})
}

// DeleteUser removes an account and cascades to its uploads, files
// included. Admin only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := RequireUser(c, h.DB)
	if !ok {
		return
	}
	if !actor.IsAdmin {
		util.SetFlash(c, "danger", "Only an administrator can delete accounts.")
		c.Redirect(http.StatusFound, "/users")
		return
	}

	id, idOK := paramID(c)
	if !idOK {
		c.String(http.StatusNotFound, "user not found")
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		c.String(http.StatusNotFound, "user not found")
		return
	}

	var uploads []models.Upload
	if err := h.DB.Where("user_id = ?", user.ID).Find(&uploads).Error; err != nil {
		util.SetFlash(c, "danger", "Delete failed, please try again.")
		c.Redirect(http.StatusFound, "/users")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Upload{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		util.SetFlash(c, "danger", "Delete failed, please try again.")
		c.Redirect(http.StatusFound, "/users")
		return
	}

	// files go last; rows are already gone, an orphaned file is the
	// accepted failure mode
	for _, up := range uploads {
		_ = h.Store.RemoveUpload(up.Filename)
	}

	c.Redirect(http.StatusFound, "/users")
}
