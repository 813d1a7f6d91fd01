package ledger

import (
	"path/filepath"
	"testing"

	"media-share/internal/config"
	"media-share/internal/database"
	"media-share/internal/models"

	"gorm.io/gorm"
)

// setupTestDB 初始化测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Path:    filepath.Join(t.TempDir(), "ledger_test.db"),
		LogMode: false,
	}
	db, err := database.Init(cfg)
	if err != nil {
		t.Fatalf("Init test database failed: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUpload(t *testing.T, db *gorm.DB) models.Upload {
	t.Helper()

	user := models.User{
		Username:     "uploader",
		Email:        "uploader@x.com",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	upload := models.Upload{
		Filename: "abc_cat.png",
		Filetype: models.KindImage,
		UserID:   user.ID,
	}
	if err := db.Create(&upload).Error; err != nil {
		t.Fatalf("create upload failed: %v", err)
	}
	return upload
}

func TestRecordView_IdempotentPerSession(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	upload := createUpload(t, db)

	views, err := l.RecordView("session-a", nil, upload.ID)
	if err != nil {
		t.Fatalf("first RecordView failed: %v", err)
	}
	if views != 1 {
		t.Errorf("first view: count = %d, want 1", views)
	}

	// 同一会话重复计数：视图数不变
	views, err = l.RecordView("session-a", nil, upload.ID)
	if err != nil {
		t.Fatalf("second RecordView failed: %v", err)
	}
	if views != 1 {
		t.Errorf("repeat view: count = %d, want 1", views)
	}

	// distinct session counts again
	views, err = l.RecordView("session-b", nil, upload.ID)
	if err != nil {
		t.Fatalf("RecordView for second session failed: %v", err)
	}
	if views != 2 {
		t.Errorf("second session view: count = %d, want 2", views)
	}

	// persisted counter agrees
	var persisted models.Upload
	if err := db.First(&persisted, upload.ID).Error; err != nil {
		t.Fatalf("reload upload failed: %v", err)
	}
	if persisted.ViewCount != 2 {
		t.Errorf("persisted view_count = %d, want 2", persisted.ViewCount)
	}
}

func TestRecordLike_RejectsSecondLike(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	upload := createUpload(t, db)

	likes, err := l.RecordLike("session-a", "alice", upload.ID)
	if err != nil {
		t.Fatalf("first RecordLike failed: %v", err)
	}
	if likes != 1 {
		t.Errorf("first like: count = %d, want 1", likes)
	}

	// second like from the same session is rejected, counter untouched
	if _, err := l.RecordLike("session-a", "alice", upload.ID); err != ErrAlreadyLiked {
		t.Fatalf("second like: err = %v, want ErrAlreadyLiked", err)
	}

	var persisted models.Upload
	if err := db.First(&persisted, upload.ID).Error; err != nil {
		t.Fatalf("reload upload failed: %v", err)
	}
	if persisted.LikeCount != 1 {
		t.Errorf("persisted like_count = %d, want 1", persisted.LikeCount)
	}

	// another session may still like
	likes, err = l.RecordLike("session-b", "bob", upload.ID)
	if err != nil {
		t.Fatalf("second session like failed: %v", err)
	}
	if likes != 2 {
		t.Errorf("second session like: count = %d, want 2", likes)
	}
}

func TestLedger_MissingUpload(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)

	if _, err := l.RecordView("session-a", nil, 9999); err != gorm.ErrRecordNotFound {
		t.Errorf("RecordView on missing upload: err = %v, want ErrRecordNotFound", err)
	}
	if _, err := l.RecordLike("session-a", "alice", 9999); err != gorm.ErrRecordNotFound {
		t.Errorf("RecordLike on missing upload: err = %v, want ErrRecordNotFound", err)
	}
}
