package models

import "time"

// User represents a registered account.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:100;uniqueIndex;not null"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:200;not null"`
	Bio          string `gorm:"size:300;default:I'm a gamer!"`
	Avatar       string `gorm:"size:200;default:default-avatar.png"`
	XP           int    `gorm:"column:xp;default:0"`
	IsAdmin      bool   `gorm:"default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
