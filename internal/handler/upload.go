package handler

import (
	"net/http"

	"media-share/internal/models"
	"media-share/internal/storage"
	"media-share/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UploadHandler 负责上传/画廊相关接口
type UploadHandler struct {
	DB    *gorm.DB
	Store *storage.Store
}

func NewUploadHandler(db *gorm.DB, store *storage.Store) *UploadHandler {
	return &UploadHandler{DB: db, Store: store}
}

// ---------- PUBLIC PAGES ----------

// Index shows all uploads, newest first.
func (h *UploadHandler) Index(c *gin.Context) {
	var uploads []models.Upload
	if err := h.DB.Preload("User").Order("id DESC").Find(&uploads).Error; err != nil {
		c.String(http.StatusInternalServerError, "could not load uploads")
		return
	}
	render(c, "index.html", gin.H{"Uploads": uploads})
}

// Gallery 公共画廊
func (h *UploadHandler) Gallery(c *gin.Context) {
	var uploads []models.Upload
	if err := h.DB.Preload("User").Order("id DESC").Find(&uploads).Error; err != nil {
		c.String(http.StatusInternalServerError, "could not load uploads")
		return
	}
	render(c, "gallery.html", gin.H{"Uploads": uploads})
}

// ViewPage shows one upload. The view counter only moves on the POST
// endpoint (see InteractHandler), not on the page itself.
func (h *UploadHandler) ViewPage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.String(http.StatusNotFound, "upload not found")
		return
	}

	var upload models.Upload
	if err := h.DB.Preload("User").First(&upload, id).Error; err != nil {
		c.String(http.StatusNotFound, "upload not found")
		return
	}
	render(c, "view.html", gin.H{"Upload": upload})
}

// ---------- DASHBOARD ----------

// Dashboard lists the current user's own uploads with their counters.
func (h *UploadHandler) Dashboard(c *gin.Context) {
	user, ok := RequireUser(c, h.DB)
	if !ok {
		return
	}

	var uploads []models.Upload
	if err := h.DB.Where("user_id = ?", user.ID).Order("id DESC").Find(&uploads).Error; err != nil {
		c.String(http.StatusInternalServerError, "could not load uploads")
		return
	}
	render(c, "dashboard.html", gin.H{"User": user, "Uploads": uploads})
}

// ---------- UPLOAD ----------

// UploadPage 上传页面
func (h *UploadHandler) UploadPage(c *gin.Context) {
	if _, ok := RequireUser(c, h.DB); !ok {
		return
	}
	render(c, "upload.html", nil)
}

// Upload stores a multipart media file and creates its record. The file is
// written before the row commits; a crash in between orphans the file.
func (h *UploadHandler) Upload(c *gin.Context) {
	user, ok := RequireUser(c, h.DB)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		util.SetFlash(c, "danger", "No selected file.")
		c.Redirect(http.StatusFound, "/upload")
		return
	}

	filename, kind, err := h.Store.SaveUpload(fh)
	if err == storage.ErrInvalidType {
		util.SetFlash(c, "danger", "Invalid file type!")
		c.Redirect(http.StatusFound, "/upload")
		return
	}
	if err != nil {
		util.SetFlash(c, "danger", "Upload failed, please try again.")
		c.Redirect(http.StatusFound, "/upload")
		return
	}

	upload := models.Upload{
		Filename: filename,
		Filetype: kind,
		UserID:   user.ID,
	}
	if err := h.DB.Create(&upload).Error; err != nil {
		_ = h.Store.RemoveUpload(filename)
		util.SetFlash(c, "danger", "Upload failed, please try again.")
		c.Redirect(http.StatusFound, "/upload")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// ---------- DELETE ----------

// Delete removes an upload and its file. Only the owner may delete; a
// non-owner gets a denial and the upload stays untouched, not a 404.
func (h *UploadHandler) Delete(c *gin.Context) {
	user, ok := RequireUser(c, h.DB)
	if !ok {
		return
	}

	id, idOK := paramID(c)
	if !idOK {
		c.String(http.StatusNotFound, "upload not found")
		return
	}

	var upload models.Upload
	if err := h.DB.First(&upload, id).Error; err != nil {
		c.String(http.StatusNotFound, "upload not found")
		return
	}

	if upload.UserID != user.ID {
		util.SetFlash(c, "danger", "You are not allowed to delete this upload.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	if err := h.Store.RemoveUpload(upload.Filename); err != nil {
		util.SetFlash(c, "danger", "Delete failed, please try again.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	if err := h.DB.Delete(&upload).Error; err != nil {
		util.SetFlash(c, "danger", "Delete failed, please try again.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	util.SetFlash(c, "success", "Upload deleted successfully.")
	c.Redirect(http.StatusFound, "/dashboard")
}
