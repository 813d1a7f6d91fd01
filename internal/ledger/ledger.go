package ledger

import (
	"errors"
	"fmt"

	"media-share/internal/models"

	"gorm.io/gorm"
)

// ErrAlreadyLiked is returned when a session likes the same upload twice.
var ErrAlreadyLiked = errors.New("already liked")

// Ledger applies the idempotent view/like counter rules. Each operation runs
// in one transaction: the per-session dedupe row (guarded by a unique index)
// and a single atomic increment on the persisted counter, so concurrent
// sessions hitting the same upload never lose updates.
type Ledger struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{DB: db}
}

// RecordView counts a view once per session and returns the current count.
// Repeat calls from the same session leave the counter unchanged.
// A missing upload reports gorm.ErrRecordNotFound.
func (l *Ledger) RecordView(sessionID string, userID *uint, uploadID uint) (int64, error) {
	var views int64
	err := l.DB.Transaction(func(tx *gorm.DB) error {
		var upload models.Upload
		if err := tx.First(&upload, uploadID).Error; err != nil {
			return err
		}

		var seen int64
		if err := tx.Model(&models.UploadView{}).
			Where("upload_id = ? AND session_id = ?", uploadID, sessionID).
			Count(&seen).Error; err != nil {
			return fmt.Errorf("check viewed: %w", err)
		}
		if seen == 0 {
			view := models.UploadView{
				UploadID:  uploadID,
				SessionID: sessionID,
				UserID:    userID,
			}
			if err := tx.Create(&view).Error; err != nil {
				return fmt.Errorf("record view: %w", err)
			}
			if err := tx.Model(&models.Upload{}).
				Where("id = ?", uploadID).
				UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
				return fmt.Errorf("bump views: %w", err)
			}
		}

		return tx.Model(&models.Upload{}).
			Where("id = ?", uploadID).
			Select("view_count").
			Scan(&views).Error
	})
	if err != nil {
		return 0, err
	}
	return views, nil
}

// RecordLike counts a like once per session and returns the current count.
// A second like from the same session is rejected with ErrAlreadyLiked and
// leaves the counter unchanged.
func (l *Ledger) RecordLike(sessionID, actor string, uploadID uint) (int64, error) {
	var likes int64
	err := l.DB.Transaction(func(tx *gorm.DB) error {
		var upload models.Upload
		if err := tx.First(&upload, uploadID).Error; err != nil {
			return err
		}

		var liked int64
		if err := tx.Model(&models.VideoLike{}).
			Where("video_id = ? AND session_id = ?", uploadID, sessionID).
			Count(&liked).Error; err != nil {
			return fmt.Errorf("check liked: %w", err)
		}
		if liked > 0 {
			return ErrAlreadyLiked
		}

		like := models.VideoLike{
			VideoID:   uploadID,
			SessionID: sessionID,
			Actor:     actor,
		}
		if err := tx.Create(&like).Error; err != nil {
			return fmt.Errorf("record like: %w", err)
		}
		if err := tx.Model(&models.Upload{}).
			Where("id = ?", uploadID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error; err != nil {
			return fmt.Errorf("bump likes: %w", err)
		}

		return tx.Model(&models.Upload{}).
			Where("id = ?", uploadID).
			Select("like_count").
			Scan(&likes).Error
	})
	if err != nil {
		return 0, err
	}
	return likes, nil
}
