package database

import (
	"fmt"

	"media-share/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Upload{},
		&models.VideoLike{},
		&models.UploadView{},
		&models.Session{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedAdmin flags the configured bootstrap username as admin, if that
// account exists. Safe to call on every startup.
func SeedAdmin(db *gorm.DB, username string) error {
	if username == "" {
		return nil
	}
	if err := db.Model(&models.User{}).
		Where("username = ?", username).
		Update("is_admin", true).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
