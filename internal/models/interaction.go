package models

import "time"

// VideoLike records one like per (upload, session). The unique index is the
// source of truth for "already liked"; the counter on Upload is derived.
type VideoLike struct {
	ID        uint   `gorm:"primaryKey"`
	VideoID   uint   `gorm:"uniqueIndex:idx_like_once,priority:1;not null"`
	SessionID string `gorm:"size:64;uniqueIndex:idx_like_once,priority:2;not null"`
	Actor     string `gorm:"size:200"` // username, or the anonymous session id
	CreatedAt time.Time

	Video Upload `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
}

// UploadView records at most one counted view per (upload, session).
type UploadView struct {
	ID        uint   `gorm:"primaryKey"`
	UploadID  uint   `gorm:"uniqueIndex:idx_view_once,priority:1;not null"`
	SessionID string `gorm:"size:64;uniqueIndex:idx_view_once,priority:2;not null"`
	UserID    *uint  `gorm:"index"` // set when the viewer was logged in
	CreatedAt time.Time

	Upload Upload `gorm:"constraint:OnDelete:CASCADE"`
}
