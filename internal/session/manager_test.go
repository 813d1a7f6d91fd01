package session

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"media-share/internal/config"
	"media-share/internal/database"
	"media-share/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Path:    filepath.Join(t.TempDir(), "session_test.db"),
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

func newManager(db *gorm.DB) *Manager {
	return NewManager(db, config.SessionConfig{
		CookieName: "ms_session",
		TTLHours:   1,
	})
}

func testContext(cookie string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		c.Request.AddCookie(&http.Cookie{Name: "ms_session", Value: cookie})
	}
	return c, w
}

func TestEnsure_AssignsAnonymousSession(t *testing.T) {
	db := setupTestDB(t)
	mgr := newManager(db)

	c, w := testContext("")
	sess, err := mgr.Ensure(c)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected a session id")
	}
	if sess.Authenticated() {
		t.Error("fresh session must be anonymous")
	}

	// cookie was issued
	found := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "ms_session" && ck.Value == sess.ID {
			found = true
		}
	}
	if !found {
		t.Error("session cookie not set")
	}

	// same cookie returns the same session
	c2, _ := testContext(sess.ID)
	sess2, err := mgr.Ensure(c2)
	if err != nil {
		t.Fatalf("Ensure with cookie failed: %v", err)
	}
	if sess2.ID != sess.ID {
		t.Errorf("session id changed: %s != %s", sess2.ID, sess.ID)
	}

	// unknown cookie gets a fresh session instead of an error
	c3, _ := testContext("no-such-session")
	sess3, err := mgr.Ensure(c3)
	if err != nil {
		t.Fatalf("Ensure with unknown cookie failed: %v", err)
	}
	if sess3.ID == "no-such-session" {
		t.Error("unknown cookie must not be adopted")
	}
}

// 登录后旧会话被丢弃，匿名期间的点赞记录不会泄漏到新会话
func TestLogin_RotatesSession(t *testing.T) {
	db := setupTestDB(t)
	mgr := newManager(db)

	user := models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	c, _ := testContext("")
	anon, err := mgr.Ensure(c)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	// simulate anonymous activity keyed to the old session
	upload := models.Upload{Filename: "a_cat.png", Filetype: models.KindImage, UserID: user.ID}
	if err := db.Create(&upload).Error; err != nil {
		t.Fatalf("create upload failed: %v", err)
	}
	like := models.VideoLike{VideoID: upload.ID, SessionID: anon.ID, Actor: anon.ID}
	if err := db.Create(&like).Error; err != nil {
		t.Fatalf("create like failed: %v", err)
	}

	c2, _ := testContext(anon.ID)
	auth, err := mgr.Login(c2, anon, &user)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if auth.ID == anon.ID {
		t.Error("login must issue a new session id")
	}
	if !auth.Authenticated() {
		t.Error("session after login must be authenticated")
	}
	if auth.Username != "alice" || auth.Email != "alice@x.com" {
		t.Errorf("identity not set: %q / %q", auth.Username, auth.Email)
	}

	// old row is gone
	var count int64
	db.Model(&models.Session{}).Where("id = ?", anon.ID).Count(&count)
	if count != 0 {
		t.Error("old session row should be deleted on login")
	}

	// new session has an empty liked set
	db.Model(&models.VideoLike{}).Where("session_id = ?", auth.ID).Count(&count)
	if count != 0 {
		t.Error("liked set must not carry over into the new session")
	}
}

func TestLogout_KeepsIdentityButGates(t *testing.T) {
	db := setupTestDB(t)
	mgr := newManager(db)

	user := models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	c, _ := testContext("")
	sess, _ := mgr.Ensure(c)
	c2, _ := testContext(sess.ID)
	auth, err := mgr.Login(c2, sess, &user)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := mgr.Logout(auth); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if auth.Authenticated() {
		t.Error("logged-out session must not authenticate")
	}
	if auth.Username != "alice" {
		t.Error("logout keeps identity fields")
	}

	// flag is persisted
	var stored models.Session
	if err := db.First(&stored, "id = ?", auth.ID).Error; err != nil {
		t.Fatalf("reload session failed: %v", err)
	}
	if !stored.LoggedOut {
		t.Error("logged_out flag not persisted")
	}
	if stored.Authenticated() {
		t.Error("stored session must not authenticate after logout")
	}
}
