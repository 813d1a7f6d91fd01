package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"media-share/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler 导出当前用户的上传统计
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func (h *ExportHandler) ownUploads(c *gin.Context) ([]models.Upload, *models.User, bool) {
	user, ok := RequireUser(c, h.DB)
	if !ok {
		return nil, nil, false
	}

	var uploads []models.Upload
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&uploads).Error; err != nil {
		c.String(http.StatusInternalServerError, "could not load uploads")
		return nil, nil, false
	}
	return uploads, user, true
}

// ExportCSV 导出上传统计为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	uploads, _, ok := h.ownUploads(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"uploads_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM for spreadsheet apps
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write([]string{"Filename", "Type", "Views", "Likes", "Uploaded"})
	for _, up := range uploads {
		writer.Write([]string{
			up.Filename,
			up.Filetype,
			strconv.FormatInt(up.ViewCount, 10),
			strconv.FormatInt(up.LikeCount, 10),
			up.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
}

// ExportXLSX 导出上传统计为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	uploads, user, ok := h.ownUploads(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Uploads"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Filename", "Type", "Views", "Likes", "Uploaded"}
	for i, head := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, head)
	}

	for row, up := range uploads {
		values := []interface{}{
			up.Filename,
			up.Filetype,
			up.ViewCount,
			up.LikeCount,
			up.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"uploads_%s_%s.xlsx\"",
		user.Username, time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "export failed")
	}
}
