package models

import "time"

// Upload kinds.
const (
	KindImage = "image"
	KindVideo = "video"
)

// Upload represents one shared image or video file.
// ViewCount/LikeCount are only ever changed by atomic increments
// (see internal/ledger), never by read-modify-write.
type Upload struct {
	ID        uint   `gorm:"primaryKey"`
	Filename  string `gorm:"size:200;not null"`
	Filetype  string `gorm:"size:20;not null"` // "image" or "video"
	UserID    uint   `gorm:"index;not null"`
	ViewCount int64  `gorm:"not null;default:0"`
	LikeCount int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
