package session

import (
	"fmt"
	"time"

	"media-share/internal/config"
	"media-share/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContextKey is where the middleware stores the current session.
const ContextKey = "currentSession"

// Manager owns the browser-session lifecycle: every visitor, anonymous or
// not, carries a cookie naming a server-side Session row. The row is what
// like/view deduplication keys on.
type Manager struct {
	DB         *gorm.DB
	CookieName string
	TTL        time.Duration
}

func NewManager(db *gorm.DB, cfg config.SessionConfig) *Manager {
	ttl := time.Duration(cfg.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{
		DB:         db,
		CookieName: cfg.CookieName,
		TTL:        ttl,
	}
}

// Ensure returns the session for this request, creating a fresh anonymous
// one when the cookie is missing, unknown or expired.
func (m *Manager) Ensure(c *gin.Context) (*models.Session, error) {
	if id, err := c.Cookie(m.CookieName); err == nil && id != "" {
		var sess models.Session
		err := m.DB.First(&sess, "id = ?", id).Error
		if err == nil && time.Now().Before(sess.ExpiresAt) {
			return &sess, nil
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("load session: %w", err)
		}
	}
	return m.create(c, nil)
}

// Login rotates to a brand-new authenticated session. The old row is
// deleted, so nothing from the previous (possibly anonymous) session —
// viewed/liked sets included — carries over.
func (m *Manager) Login(c *gin.Context, old *models.Session, user *models.User) (*models.Session, error) {
	if old != nil {
		if err := m.DB.Delete(&models.Session{}, "id = ?", old.ID).Error; err != nil {
			return nil, fmt.Errorf("drop old session: %w", err)
		}
	}
	return m.create(c, user)
}

// Logout marks the session logged out. Identity fields stay on the row but
// Authenticated() is false from here on, until a fresh login.
func (m *Manager) Logout(sess *models.Session) error {
	if sess == nil {
		return nil
	}
	sess.LoggedOut = true
	if err := m.DB.Model(sess).Update("logged_out", true).Error; err != nil {
		return fmt.Errorf("logout session: %w", err)
	}
	return nil
}

// Touch updates the cached username on the session after a username change.
func (m *Manager) Touch(sess *models.Session, username string) error {
	sess.Username = username
	return m.DB.Model(sess).Update("username", username).Error
}

func (m *Manager) create(c *gin.Context, user *models.User) (*models.Session, error) {
	sess := models.Session{
		ID:        uuid.New().String(),
		ExpiresAt: time.Now().Add(m.TTL),
	}
	if user != nil {
		sess.UserID = &user.ID
		sess.Username = user.Username
		sess.Email = user.Email
	}
	if err := m.DB.Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.SetCookie(m.CookieName, sess.ID, int(m.TTL.Seconds()), "/", "", false, true)
	return &sess, nil
}

// FromContext returns the session the middleware attached to this request.
func FromContext(c *gin.Context) *models.Session {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}
